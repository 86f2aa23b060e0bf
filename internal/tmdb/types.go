package tmdb

// Candidate is one movie returned by a title search.
type Candidate struct {
	ID         int
	Title      string
	Year       int // 0 when TMDB has no release date for the candidate
	PosterPath string
}

type searchResponse struct {
	Results []searchMovie `json:"results"`
}

type searchMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

type releaseDatesResponse struct {
	Results []releaseDatesCountry `json:"results"`
}

type releaseDatesCountry struct {
	CountryCode  string             `json:"iso_3166_1"`
	ReleaseDates []releaseDateEntry `json:"release_dates"`
}

type releaseDateEntry struct {
	ReleaseDate string `json:"release_date"`
	Type        int    `json:"type"`
	Note        string `json:"note"`
}

type watchProvidersResponse struct {
	Results map[string]watchProvidersCountry `json:"results"`
}

type watchProvidersCountry struct {
	Link     string          `json:"link"`
	Flatrate []watchProvider `json:"flatrate"`
	Rent     []watchProvider `json:"rent"`
	Buy      []watchProvider `json:"buy"`
}

type watchProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}
