// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort              = "8080"
	DefaultDBPath            = "timeboxd.db"
	DefaultTMDBBaseURL       = "https://api.themoviedb.org/3"
	DefaultLetterboxdBaseURL = "https://letterboxd.com"
	DefaultConcurrency       = 5
	DefaultHTTPTimeout       = 15 * time.Second
	DefaultRetryCount        = 3
	DefaultRetryBase         = 1 * time.Second
	DefaultFilmTTL           = 7 * 24 * time.Hour
	DefaultReleaseTTL        = 12 * time.Hour
	DefaultProviderTTL       = 24 * time.Hour
	DefaultTMDBRPS           = 4
	DefaultTMDBBurst         = 2
	DefaultRecencyWindowDays = 90
	DefaultScrapeDelay       = 250 * time.Millisecond
	DefaultFallbackCountry   = "US"
)

// Watchlist policy: films older than this many years before the current
// year are dropped before resolution.
const WatchlistCutoffYears = 3

// Database
const (
	FilmCacheTable         = "film_cache"
	ReleaseCacheTable      = "release_cache"
	ReleaseCacheMetaTable  = "release_cache_meta"
	ProviderCacheTable     = "provider_cache"
	ProviderCacheMetaTable = "provider_cache_meta"
)
