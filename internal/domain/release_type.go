package domain

// ReleaseType is the TMDB release type code.
type ReleaseType int

const (
	ReleasePremiere           ReleaseType = 1
	ReleaseTheatricalLimited  ReleaseType = 2
	ReleaseTheatrical         ReleaseType = 3
	ReleaseDigital            ReleaseType = 4
	ReleasePhysical           ReleaseType = 5
	ReleaseTV                 ReleaseType = 6
)

// Valid reports whether the code is one TMDB actually emits.
func (t ReleaseType) Valid() bool {
	return t >= ReleasePremiere && t <= ReleaseTV
}

// Theatrical reports whether the type belongs to the theatrical bucket.
// Premiere and limited releases count as theatrical; digital, physical
// and TV releases count as streaming.
func (t ReleaseType) Theatrical() bool {
	switch t {
	case ReleasePremiere, ReleaseTheatricalLimited, ReleaseTheatrical:
		return true
	default:
		return false
	}
}

func (t ReleaseType) String() string {
	switch t {
	case ReleasePremiere:
		return "Premiere"
	case ReleaseTheatricalLimited:
		return "Theatrical (limited)"
	case ReleaseTheatrical:
		return "Theatrical"
	case ReleaseDigital:
		return "Digital"
	case ReleasePhysical:
		return "Physical"
	case ReleaseTV:
		return "TV"
	default:
		return "Unknown"
	}
}
