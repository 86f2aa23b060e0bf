package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/adamjhf/timeboxd/internal/domain"
)

// GetProviderRefresh returns the unix time the (tmdbID, country) provider
// set was last refreshed, or 0 when it has never been fetched.
func (db *DB) GetProviderRefresh(tmdbID int, country string) (int64, error) {
	var cachedAt int64
	err := db.Get(&cachedAt,
		`SELECT cached_at FROM provider_cache_meta WHERE tmdb_id = ? AND country = ?`,
		tmdbID, country)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cachedAt, nil
}

// GetProviders returns the cached watch providers for a (tmdbID, country)
// pair, grouped by kind then name for deterministic output.
func (db *DB) GetProviders(tmdbID int, country string) ([]domain.WatchProvider, error) {
	var providers []domain.WatchProvider
	err := db.Select(&providers, `
		SELECT * FROM provider_cache
		WHERE tmdb_id = ? AND country = ?
		ORDER BY provider_type, provider_name
	`, tmdbID, country)
	if err != nil {
		return nil, err
	}
	return providers, nil
}

// ReplaceProviders atomically replaces the watch providers for every
// country present in byCountry and stamps the provider ledger for those
// countries plus ledgerCountries, mirroring ReplaceReleases.
func (db *DB) ReplaceProviders(tmdbID int, byCountry map[string][]domain.WatchProvider, ledgerCountries []string) error {
	now := time.Now().Unix()

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for country, providers := range byCountry {
		if _, err := tx.Exec(
			`DELETE FROM provider_cache WHERE tmdb_id = ? AND country = ?`,
			tmdbID, country); err != nil {
			return err
		}
		for _, p := range providers {
			if _, err := tx.Exec(`
				INSERT INTO provider_cache (tmdb_id, country, provider_id, provider_name, logo_path, link, provider_type, cached_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(tmdb_id, country, provider_id, provider_type) DO NOTHING
			`, tmdbID, country, p.ProviderID, p.Name, p.LogoPath, p.Link, p.Kind, now); err != nil {
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
			INSERT INTO provider_cache_meta (tmdb_id, country, cached_at)
			VALUES (?, ?, ?)
			ON CONFLICT(tmdb_id, country) DO UPDATE SET cached_at = excluded.cached_at
		`, tmdbID, country, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}
