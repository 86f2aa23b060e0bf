package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/adamjhf/timeboxd/internal/domain"
	"github.com/adamjhf/timeboxd/internal/logger"
	"github.com/adamjhf/timeboxd/internal/store"
	"github.com/adamjhf/timeboxd/internal/tmdb"
)

const (
	testFilmTTL    = 7 * 24 * time.Hour
	testReleaseTTL = 12 * time.Hour
)

func testStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

type mockSearch struct {
	calls      int
	candidates []tmdb.Candidate
	err        error
}

func (m *mockSearch) SearchMovie(ctx context.Context, title string, year int) ([]tmdb.Candidate, error) {
	m.calls++
	return m.candidates, m.err
}

func TestResolver_CacheHitSkipsUpstream(t *testing.T) {
	db := testStore(t)
	search := &mockSearch{candidates: []tmdb.Candidate{{ID: 550, Title: "Fight Club", Year: 1999}}}
	resolver := NewResolver(db, search, testFilmTTL, logger.Default())

	entry := domain.WatchlistEntry{Slug: "fight-club", Title: "Fight Club", Year: 1999}

	identity, err := resolver.Resolve(context.Background(), entry)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !identity.Resolved() || *identity.TMDBID != 550 {
		t.Fatalf("Expected resolution to 550, got %+v", identity)
	}
	if search.calls != 1 {
		t.Fatalf("Expected 1 upstream call, got %d", search.calls)
	}

	// Second resolve within the TTL must not touch upstream.
	identity, err = resolver.Resolve(context.Background(), entry)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !identity.Resolved() || *identity.TMDBID != 550 {
		t.Errorf("Expected cached resolution, got %+v", identity)
	}
	if search.calls != 1 {
		t.Errorf("Expected no additional upstream calls, got %d", search.calls)
	}
}

func TestResolver_NegativeCache(t *testing.T) {
	db := testStore(t)
	search := &mockSearch{candidates: nil}
	resolver := NewResolver(db, search, testFilmTTL, logger.Default())

	entry := domain.WatchlistEntry{Slug: "some-obscure-film", Title: "Some Obscure Film"}

	identity, err := resolver.Resolve(context.Background(), entry)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if identity.Resolved() {
		t.Fatalf("Expected unresolved identity, got %+v", identity)
	}
	if search.calls != 1 {
		t.Fatalf("Expected 1 upstream call, got %d", search.calls)
	}

	// The negative outcome is cached: no further searches within TTL.
	search.err = errors.New("should not be called")
	identity, err = resolver.Resolve(context.Background(), entry)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if identity.Resolved() {
		t.Errorf("Expected cached unresolved identity, got %+v", identity)
	}
	if search.calls != 1 {
		t.Errorf("Expected no additional upstream calls, got %d", search.calls)
	}
}

func TestResolver_StaleRowForcesSearch(t *testing.T) {
	db := testStore(t)
	if err := db.UpsertFilm(&domain.FilmIdentity{Slug: "dune", Title: "Dune"}); err != nil {
		t.Fatalf("UpsertFilm failed: %v", err)
	}

	search := &mockSearch{candidates: []tmdb.Candidate{{ID: 438631, Title: "Dune", Year: 2021}}}
	resolver := NewResolver(db, search, testFilmTTL, logger.Default())
	// Pretend the TTL has long passed.
	resolver.now = func() time.Time { return time.Now().Add(testFilmTTL + time.Hour) }

	identity, err := resolver.Resolve(context.Background(), domain.WatchlistEntry{Slug: "dune", Title: "Dune", Year: 2021})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !identity.Resolved() || *identity.TMDBID != 438631 {
		t.Errorf("Expected stale negative row re-resolved, got %+v", identity)
	}
	if search.calls != 1 {
		t.Errorf("Expected 1 upstream call for stale row, got %d", search.calls)
	}
}

func TestResolver_TransportErrorPropagates(t *testing.T) {
	db := testStore(t)
	search := &mockSearch{err: &domain.TransportError{Op: "tmdb get", Err: errors.New("boom")}}
	resolver := NewResolver(db, search, testFilmTTL, logger.Default())

	_, err := resolver.Resolve(context.Background(), domain.WatchlistEntry{Slug: "x", Title: "X"})
	if !domain.IsTransport(err) {
		t.Fatalf("Expected transport error, got %v", err)
	}

	// Nothing cached: the next attempt hits upstream again.
	if film, _ := db.GetFilm("x"); film != nil {
		t.Errorf("Expected no cached row after transport failure, got %+v", film)
	}
}

func TestSelectCandidate(t *testing.T) {
	tests := []struct {
		name       string
		candidates []tmdb.Candidate
		title      string
		year       int
		wantID     int
	}{
		{
			name: "exact year wins",
			candidates: []tmdb.Candidate{
				{ID: 841, Title: "Dune", Year: 1984},
				{ID: 438631, Title: "Dune", Year: 2021},
			},
			title: "Dune", year: 2021, wantID: 438631,
		},
		{
			name: "closest title wins without year",
			candidates: []tmdb.Candidate{
				{ID: 10, Title: "The Substance 2: Substance Harder", Year: 2027},
				{ID: 20, Title: "The Substance", Year: 2024},
			},
			title: "The Substance", year: 0, wantID: 20,
		},
		{
			name: "lowest id breaks remaining ties",
			candidates: []tmdb.Candidate{
				{ID: 300, Title: "Nosferatu", Year: 2024},
				{ID: 100, Title: "Nosferatu", Year: 2024},
				{ID: 200, Title: "Nosferatu", Year: 2024},
			},
			title: "Nosferatu", year: 2024, wantID: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best := selectCandidate(tt.candidates, tt.title, tt.year)
			if best == nil || best.ID != tt.wantID {
				t.Errorf("selectCandidate() = %+v, want id %d", best, tt.wantID)
			}
		})
	}

	if selectCandidate(nil, "x", 0) != nil {
		t.Error("Expected nil for no candidates")
	}
}
