// Package tracker implements the resolution-and-release pipeline: watchlist
// entries are resolved to TMDB ids, release dates are fetched through the
// two-tier cache, and the results are categorized and sorted.
package tracker

import (
	"context"
	"sort"
	"time"

	"github.com/adamjhf/timeboxd/internal/domain"
	"github.com/adamjhf/timeboxd/internal/logger"
	"github.com/adamjhf/timeboxd/internal/store"
	"github.com/adamjhf/timeboxd/internal/tmdb"
)

// SearchClient is the slice of the TMDB client the resolver needs.
type SearchClient interface {
	SearchMovie(ctx context.Context, title string, year int) ([]tmdb.Candidate, error)
}

// Resolver maps watchlist entries to TMDB ids, consulting the identity
// cache before the upstream search and writing every outcome back,
// including "unresolvable" as a negative cache.
type Resolver struct {
	db      *store.DB
	search  SearchClient
	filmTTL time.Duration
	log     *logger.Logger
	now     func() time.Time
}

func NewResolver(db *store.DB, search SearchClient, filmTTL time.Duration, log *logger.Logger) *Resolver {
	return &Resolver{
		db:      db,
		search:  search,
		filmTTL: filmTTL,
		log:     log.WithComponent("resolver"),
		now:     time.Now,
	}
}

// Resolve returns the film identity for a watchlist entry. An identity with
// a nil TMDB id is a normal outcome, not an error: it means the film is
// known to be unresolvable and the outcome is cached.
func (r *Resolver) Resolve(ctx context.Context, entry domain.WatchlistEntry) (*domain.FilmIdentity, error) {
	cached, err := r.db.GetFilm(entry.Slug)
	if err != nil {
		return nil, &domain.CacheError{Op: "get film", Err: err}
	}
	if cached != nil && domain.Fresh(cached.UpdatedAt, r.filmTTL, r.now()) {
		return cached, nil
	}

	candidates, err := r.search.SearchMovie(ctx, entry.Title, entry.Year)
	if err != nil {
		return nil, err
	}

	identity := &domain.FilmIdentity{
		Slug:  entry.Slug,
		Title: entry.Title,
	}
	if entry.Year > 0 {
		year := entry.Year
		identity.Year = &year
	}

	if best := selectCandidate(candidates, entry.Title, entry.Year); best != nil {
		id := best.ID
		identity.TMDBID = &id
		identity.Title = best.Title
		identity.PosterPath = best.PosterPath
		if best.Year > 0 {
			year := best.Year
			identity.Year = &year
		}
	} else {
		r.log.Debug("no catalog match", "slug", entry.Slug, "title", entry.Title)
	}

	// Write back regardless of outcome so unresolvable entries do not
	// hammer the search endpoint until the TTL elapses.
	if err := r.db.UpsertFilm(identity); err != nil {
		return nil, &domain.CacheError{Op: "upsert film", Err: err}
	}

	return identity, nil
}

// selectCandidate picks deterministically among search candidates: exact
// year match first, then closest title, then lowest id.
func selectCandidate(candidates []tmdb.Candidate, title string, year int) *tmdb.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]tmdb.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if year > 0 {
			aExact, bExact := a.Year == year, b.Year == year
			if aExact != bExact {
				return aExact
			}
		}
		aSim, bSim := titleSimilarity(a.Title, title), titleSimilarity(b.Title, title)
		if aSim != bSim {
			return aSim > bSim
		}
		return a.ID < b.ID
	})

	return &ranked[0]
}
