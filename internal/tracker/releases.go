package tracker

import (
	"context"
	"time"

	"github.com/adamjhf/timeboxd/internal/domain"
	"github.com/adamjhf/timeboxd/internal/logger"
	"github.com/adamjhf/timeboxd/internal/store"
)

// ReleaseClient is the slice of the TMDB client the fetcher needs.
type ReleaseClient interface {
	ReleaseDates(ctx context.Context, tmdbID int) (map[string][]domain.ReleaseEvent, error)
}

// ReleaseFetcher serves release events for a (film, country) pair from the
// cache, refreshing from upstream when the refresh ledger says the pair is
// stale. One upstream call refreshes every country TMDB reports.
type ReleaseFetcher struct {
	db         *store.DB
	tmdb       ReleaseClient
	releaseTTL time.Duration
	fallback   []string
	log        *logger.Logger
	now        func() time.Time
}

func NewReleaseFetcher(db *store.DB, client ReleaseClient, releaseTTL time.Duration, fallback []string, log *logger.Logger) *ReleaseFetcher {
	return &ReleaseFetcher{
		db:         db,
		tmdb:       client,
		releaseTTL: releaseTTL,
		fallback:   fallback,
		log:        log.WithComponent("releases"),
		now:        time.Now,
	}
}

// Fetch returns the known release events for a film in a country, falling
// back through the configured country order when the requested country has
// none. An empty result is a valid terminal state, not an error.
func (f *ReleaseFetcher) Fetch(ctx context.Context, tmdbID int, country string) ([]domain.ReleaseEvent, error) {
	cachedAt, err := f.db.GetRefresh(tmdbID, country)
	if err != nil {
		return nil, &domain.CacheError{Op: "get refresh", Err: err}
	}

	if cachedAt == 0 || !domain.Fresh(cachedAt, f.releaseTTL, f.now()) {
		byCountry, err := f.tmdb.ReleaseDates(ctx, tmdbID)
		if err != nil {
			return nil, err
		}
		// Stamp the requested country even when the response has no rows
		// for it, so repeat requests stay cache hits until the TTL.
		if err := f.db.ReplaceReleases(tmdbID, byCountry, []string{country}); err != nil {
			return nil, &domain.CacheError{Op: "replace releases", Err: err}
		}
		f.log.Debug("refreshed releases", "tmdb_id", tmdbID, "countries", len(byCountry))
	}

	for _, c := range f.fallbackOrder(country) {
		events, err := f.db.GetReleases(tmdbID, c)
		if err != nil {
			return nil, &domain.CacheError{Op: "get releases", Err: err}
		}
		if len(events) > 0 {
			return events, nil
		}
	}
	return nil, nil
}

// fallbackOrder is the requested country followed by the configured
// fallback list, without repeats.
func (f *ReleaseFetcher) fallbackOrder(country string) []string {
	order := []string{country}
	for _, c := range f.fallback {
		if c != country {
			order = append(order, c)
		}
	}
	return order
}
