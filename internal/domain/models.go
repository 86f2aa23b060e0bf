// Package domain contains the core models shared across the service.
package domain

import "time"

// WatchlistEntry is one film reference scraped from a user's watchlist,
// prior to catalog resolution.
type WatchlistEntry struct {
	Slug  string
	Title string
	Year  int // 0 when the watchlist page carried no year
}

// FilmIdentity is a cached resolution of a watchlist slug to a TMDB id.
// TMDBID is nil for a negative-cached "known unresolvable" outcome.
type FilmIdentity struct {
	Slug       string `db:"letterboxd_slug"`
	TMDBID     *int   `db:"tmdb_id"`
	Title      string `db:"title"`
	Year       *int   `db:"year"`
	PosterPath string `db:"poster_path"`
	UpdatedAt  int64  `db:"updated_at"`
}

// Resolved reports whether the identity carries a usable TMDB id.
func (f *FilmIdentity) Resolved() bool {
	return f != nil && f.TMDBID != nil
}

// ReleaseEvent is one dated release record for a film in a country.
type ReleaseEvent struct {
	ID       int64       `db:"id"`
	TMDBID   int         `db:"tmdb_id"`
	Country  string      `db:"country"`
	Date     string      `db:"release_date"` // YYYY-MM-DD
	Type     ReleaseType `db:"release_type"`
	Note     string      `db:"note"`
	CachedAt int64       `db:"cached_at"`
}

// Time parses the event date. The zero time is returned for malformed rows.
func (e ReleaseEvent) Time() time.Time {
	t, _ := time.Parse(DateLayout, e.Date)
	return t
}

// DateLayout is the storage and wire format for release dates.
const DateLayout = "2006-01-02"

// CategorizedFilm is one output row: a film with its single earliest
// relevant release in a bucket.
type CategorizedFilm struct {
	Title       string
	Year        int
	TMDBID      int
	PosterPath  string
	ReleaseDate string
	ReleaseType ReleaseType
	Note        string
	Country     string
	Providers   []WatchProvider
}

// Fresh reports whether a cached timestamp is still within its TTL.
// All staleness decisions in the service go through this one check.
func Fresh(updatedAt int64, ttl time.Duration, now time.Time) bool {
	return now.Unix()-updatedAt <= int64(ttl.Seconds())
}
