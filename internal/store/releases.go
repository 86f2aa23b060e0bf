package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/adamjhf/timeboxd/internal/domain"
)

// GetRefresh returns the unix time the (tmdbID, country) pair was last fully
// refreshed, or 0 when it has never been fetched. The ledger is the only
// authority on release freshness; release_cache rows alone prove nothing.
func (db *DB) GetRefresh(tmdbID int, country string) (int64, error) {
	var cachedAt int64
	err := db.Get(&cachedAt,
		`SELECT cached_at FROM release_cache_meta WHERE tmdb_id = ? AND country = ?`,
		tmdbID, country)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cachedAt, nil
}

// GetReleases returns the cached release events for a (tmdbID, country)
// pair, sorted by date then type for deterministic output.
func (db *DB) GetReleases(tmdbID int, country string) ([]domain.ReleaseEvent, error) {
	var events []domain.ReleaseEvent
	err := db.Select(&events, `
		SELECT * FROM release_cache
		WHERE tmdb_id = ? AND country = ?
		ORDER BY release_date, release_type
	`, tmdbID, country)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ReplaceReleases atomically replaces the release events for every country
// present in byCountry and stamps the refresh ledger for those countries
// plus ledgerCountries. A single upstream fetch returns the whole
// per-country table, so one call refreshes every pair it covers; the extra
// ledger countries let a requested-but-absent country still be marked fresh.
// Readers in WAL mode see either the old or the new set, never a mix.
func (db *DB) ReplaceReleases(tmdbID int, byCountry map[string][]domain.ReleaseEvent, ledgerCountries []string) error {
	now := time.Now().Unix()

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for country, events := range byCountry {
		if _, err := tx.Exec(
			`DELETE FROM release_cache WHERE tmdb_id = ? AND country = ?`,
			tmdbID, country); err != nil {
			return err
		}
		for _, ev := range events {
			// ON CONFLICT IGNORE: upstream occasionally repeats an
			// identical (date, type) row within one country.
			if _, err := tx.Exec(`
				INSERT INTO release_cache (tmdb_id, country, release_date, release_type, note, cached_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(tmdb_id, country, release_date, release_type) DO NOTHING
			`, tmdbID, country, ev.Date, ev.Type, ev.Note, now); err != nil {
				return err
			}
		}
	}

	stamped := make(map[string]bool, len(byCountry)+len(ledgerCountries))
	for country := range byCountry {
		stamped[country] = true
	}
	for _, country := range ledgerCountries {
		stamped[country] = true
	}
	for country := range stamped {
		if _, err := tx.Exec(`
			INSERT INTO release_cache_meta (tmdb_id, country, cached_at)
			VALUES (?, ?, ?)
			ON CONFLICT(tmdb_id, country) DO UPDATE SET cached_at = excluded.cached_at
		`, tmdbID, country, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}
