package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/adamjhf/timeboxd/internal/domain"
)

// GetFilm returns the cached identity for a watchlist slug, or nil when the
// slug has never been resolved. Staleness is the caller's decision; stale
// rows are returned as-is.
func (db *DB) GetFilm(slug string) (*domain.FilmIdentity, error) {
	var film domain.FilmIdentity
	err := db.Get(&film, `SELECT * FROM film_cache WHERE letterboxd_slug = ?`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &film, nil
}

// UpsertFilm stores a resolution outcome for a slug, positive or negative,
// stamping it with the current time. Last writer wins.
func (db *DB) UpsertFilm(film *domain.FilmIdentity) error {
	film.UpdatedAt = time.Now().Unix()
	_, err := db.Exec(`
		INSERT INTO film_cache (letterboxd_slug, tmdb_id, title, year, poster_path, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(letterboxd_slug) DO UPDATE SET
			tmdb_id = excluded.tmdb_id,
			title = excluded.title,
			year = excluded.year,
			poster_path = excluded.poster_path,
			updated_at = excluded.updated_at
	`, film.Slug, film.TMDBID, film.Title, film.Year, film.PosterPath, film.UpdatedAt)
	return err
}
