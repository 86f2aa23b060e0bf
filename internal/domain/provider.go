package domain

// ProviderKind buckets a watch provider offer.
type ProviderKind int

const (
	ProviderStream ProviderKind = 1
	ProviderRent   ProviderKind = 2
	ProviderBuy    ProviderKind = 3
)

func (k ProviderKind) Valid() bool {
	return k >= ProviderStream && k <= ProviderBuy
}

func (k ProviderKind) String() string {
	switch k {
	case ProviderStream:
		return "Stream"
	case ProviderRent:
		return "Rent"
	case ProviderBuy:
		return "Buy"
	default:
		return "Unknown"
	}
}

// WatchProvider is one place a film can currently be watched in a country.
// Link is TMDB's per-country watch page; it is shared by every provider row
// of a country and may be empty.
type WatchProvider struct {
	ID         int64        `db:"id"`
	TMDBID     int          `db:"tmdb_id"`
	Country    string       `db:"country"`
	ProviderID int          `db:"provider_id"`
	Name       string       `db:"provider_name"`
	LogoPath   string       `db:"logo_path"`
	Link       string       `db:"link"`
	Kind       ProviderKind `db:"provider_type"`
	CachedAt   int64        `db:"cached_at"`
}
