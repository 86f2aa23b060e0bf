package tracker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/adamjhf/timeboxd/internal/constants"
	"github.com/adamjhf/timeboxd/internal/domain"
	"github.com/adamjhf/timeboxd/internal/letterboxd"
	"github.com/adamjhf/timeboxd/internal/logger"
)

// Failure records one watchlist entry that could not be processed.
type Failure struct {
	Slug  string
	Title string
	Err   string
}

// Result is the final categorized output for one watchlist run. Films
// appear at most once per bucket, with the earliest relevant date for that
// bucket; buckets are sorted ascending by that date.
type Result struct {
	Theatrical []domain.CategorizedFilm
	Streaming  []domain.CategorizedFilm
	Failures   []Failure
}

// Processor drives the watchlist through resolve, fetch and categorize
// with a bounded number of in-flight entries.
type Processor struct {
	source      letterboxd.Source
	resolver    *Resolver
	fetcher     *ReleaseFetcher
	providers   *ProviderFetcher
	concurrency int
	window      time.Duration
	log         *logger.Logger
	now         func() time.Time
}

func NewProcessor(source letterboxd.Source, resolver *Resolver, fetcher *ReleaseFetcher, providers *ProviderFetcher, concurrency, windowDays int, log *logger.Logger) *Processor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{
		source:      source,
		resolver:    resolver,
		fetcher:     fetcher,
		providers:   providers,
		concurrency: concurrency,
		window:      time.Duration(windowDays) * 24 * time.Hour,
		log:         log.WithComponent("processor"),
		now:         time.Now,
	}
}

type entryOutcome struct {
	entry     domain.WatchlistEntry
	identity  *domain.FilmIdentity
	cat       Categorized
	providers []domain.WatchProvider
	err       error
}

// Process scrapes the username's watchlist and produces the categorized,
// date-sorted releases for the given country. A failing entry is recorded
// and excluded; only watchlist or cache failures abort the batch.
func (p *Processor) Process(ctx context.Context, username, country string) (*Result, error) {
	batchID := uuid.New().String()
	log := p.log.WithBatch(batchID, username)

	asOf := p.now()
	cutoffYear := asOf.Year() - constants.WatchlistCutoffYears

	entries, err := p.source.Watchlist(ctx, username, cutoffYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watchlist: %w", err)
	}

	// The scrape stops paging once everything is old, but the last page
	// can still straddle the cutoff.
	recent := entries[:0]
	for _, entry := range entries {
		if entry.Year == 0 || entry.Year >= cutoffYear {
			recent = append(recent, entry)
		}
	}
	log.Info("processing watchlist", "films", len(recent), "country", country)

	workers := pool.NewWithResults[entryOutcome]().WithMaxGoroutines(p.concurrency)
	for _, entry := range recent {
		workers.Go(func() entryOutcome {
			return p.processEntry(ctx, entry, country, asOf)
		})
	}
	outcomes := workers.Wait()

	result := &Result{}
	for _, outcome := range outcomes {
		if outcome.err != nil {
			if domain.IsCache(outcome.err) {
				// The cache is load-bearing; without it the run would
				// hammer upstream and serve inconsistent results.
				return nil, outcome.err
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("entry failed", "slug", outcome.entry.Slug, "error", outcome.err)
			result.Failures = append(result.Failures, Failure{
				Slug:  outcome.entry.Slug,
				Title: outcome.entry.Title,
				Err:   outcome.err.Error(),
			})
			continue
		}
		if outcome.identity == nil || !outcome.identity.Resolved() || outcome.cat.Empty() {
			continue
		}
		appendFilm(&result.Theatrical, outcome.identity, outcome.cat.Theatrical, nil)
		appendFilm(&result.Streaming, outcome.identity, outcome.cat.Streaming, outcome.providers)
	}

	sortFilms(result.Theatrical)
	sortFilms(result.Streaming)

	log.Info("completed batch",
		"theatrical", len(result.Theatrical),
		"streaming", len(result.Streaming),
		"failures", len(result.Failures))
	return result, nil
}

func (p *Processor) processEntry(ctx context.Context, entry domain.WatchlistEntry, country string, asOf time.Time) entryOutcome {
	outcome := entryOutcome{entry: entry}

	identity, err := p.resolver.Resolve(ctx, entry)
	if err != nil {
		outcome.err = err
		return outcome
	}
	outcome.identity = identity
	if !identity.Resolved() {
		return outcome
	}

	events, err := p.fetcher.Fetch(ctx, *identity.TMDBID, country)
	if err != nil {
		outcome.err = err
		return outcome
	}

	outcome.cat = Categorize(events, asOf, p.window)

	if len(outcome.cat.Streaming) > 0 {
		providers, err := p.providers.Fetch(ctx, *identity.TMDBID, country)
		if err != nil {
			if domain.IsCache(err) {
				outcome.err = err
				return outcome
			}
			// Providers are decoration; a transient fetch failure must
			// not cost the film its release rows.
			p.log.Warn("provider fetch failed", "slug", entry.Slug, "error", err)
		}
		outcome.providers = providers
	}
	return outcome
}

// appendFilm collapses a bucket to the film's single earliest event.
func appendFilm(bucket *[]domain.CategorizedFilm, identity *domain.FilmIdentity, events []domain.ReleaseEvent, providers []domain.WatchProvider) {
	if len(events) == 0 {
		return
	}
	earliest := events[0]
	film := domain.CategorizedFilm{
		Title:       identity.Title,
		TMDBID:      *identity.TMDBID,
		PosterPath:  identity.PosterPath,
		ReleaseDate: earliest.Date,
		ReleaseType: earliest.Type,
		Note:        earliest.Note,
		Country:     earliest.Country,
		Providers:   providers,
	}
	if identity.Year != nil {
		film.Year = *identity.Year
	}
	*bucket = append(*bucket, film)
}

func sortFilms(films []domain.CategorizedFilm) {
	sort.Slice(films, func(i, j int) bool {
		if films[i].ReleaseDate != films[j].ReleaseDate {
			return films[i].ReleaseDate < films[j].ReleaseDate
		}
		return films[i].Title < films[j].Title
	})
}
