package tracker

import (
	"context"
	"time"

	"github.com/adamjhf/timeboxd/internal/domain"
	"github.com/adamjhf/timeboxd/internal/logger"
	"github.com/adamjhf/timeboxd/internal/store"
)

// ProviderClient is the slice of the TMDB client the provider fetcher needs.
type ProviderClient interface {
	WatchProviders(ctx context.Context, tmdbID int) (map[string][]domain.WatchProvider, error)
}

// ProviderFetcher serves watch providers for a (film, country) pair from
// the cache, refreshing from upstream when the provider ledger says the
// pair is stale. Unlike releases there is no country fallback: provider
// availability in another country is not a substitute.
type ProviderFetcher struct {
	db          *store.DB
	tmdb        ProviderClient
	providerTTL time.Duration
	log         *logger.Logger
	now         func() time.Time
}

func NewProviderFetcher(db *store.DB, client ProviderClient, providerTTL time.Duration, log *logger.Logger) *ProviderFetcher {
	return &ProviderFetcher{
		db:          db,
		tmdb:        client,
		providerTTL: providerTTL,
		log:         log.WithComponent("providers"),
		now:         time.Now,
	}
}

// Fetch returns the watch providers for a film in a country. An empty
// result means the film cannot be watched there yet, which is a valid,
// cacheable state.
func (f *ProviderFetcher) Fetch(ctx context.Context, tmdbID int, country string) ([]domain.WatchProvider, error) {
	cachedAt, err := f.db.GetProviderRefresh(tmdbID, country)
	if err != nil {
		return nil, &domain.CacheError{Op: "get provider refresh", Err: err}
	}

	if cachedAt == 0 || !domain.Fresh(cachedAt, f.providerTTL, f.now()) {
		byCountry, err := f.tmdb.WatchProviders(ctx, tmdbID)
		if err != nil {
			return nil, err
		}
		if err := f.db.ReplaceProviders(tmdbID, byCountry, []string{country}); err != nil {
			return nil, &domain.CacheError{Op: "replace providers", Err: err}
		}
		f.log.Debug("refreshed providers", "tmdb_id", tmdbID, "countries", len(byCountry))
	}

	providers, err := f.db.GetProviders(tmdbID, country)
	if err != nil {
		return nil, &domain.CacheError{Op: "get providers", Err: err}
	}
	return providers, nil
}
