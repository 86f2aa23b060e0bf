package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adamjhf/timeboxd/internal/domain"
	"github.com/adamjhf/timeboxd/internal/logger"
)

type mockProviders struct {
	calls     int
	byCountry map[string][]domain.WatchProvider
	err       error
}

func (m *mockProviders) WatchProviders(ctx context.Context, tmdbID int) (map[string][]domain.WatchProvider, error) {
	m.calls++
	return m.byCountry, m.err
}

func TestProviderFetcher_LedgerHitSkipsUpstream(t *testing.T) {
	db := testStore(t)
	client := &mockProviders{byCountry: map[string][]domain.WatchProvider{
		"US": {
			{ProviderID: 8, Name: "Netflix", Kind: domain.ProviderStream},
			{ProviderID: 2, Name: "Apple TV", Kind: domain.ProviderRent},
		},
	}}
	fetcher := NewProviderFetcher(db, client, testReleaseTTL, logger.Default())

	providers, err := fetcher.Fetch(context.Background(), 42, "US")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(providers) != 2 || client.calls != 1 {
		t.Fatalf("Expected 2 providers from 1 upstream call, got %d providers, %d calls", len(providers), client.calls)
	}
	if providers[0].Kind != domain.ProviderStream {
		t.Errorf("Expected stream providers ordered first, got %+v", providers[0])
	}

	if _, err := fetcher.Fetch(context.Background(), 42, "US"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("Expected no additional upstream calls within the TTL, got %d", client.calls)
	}
}

func TestProviderFetcher_ExpiredLedgerRefreshes(t *testing.T) {
	db := testStore(t)
	client := &mockProviders{byCountry: map[string][]domain.WatchProvider{
		"US": {{ProviderID: 8, Name: "Netflix", Kind: domain.ProviderStream}},
	}}
	fetcher := NewProviderFetcher(db, client, testReleaseTTL, logger.Default())

	if _, err := fetcher.Fetch(context.Background(), 42, "US"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// Expire the ledger and swap the upstream catalogue.
	fetcher.now = func() time.Time { return time.Now().Add(testReleaseTTL + time.Hour) }
	client.byCountry = map[string][]domain.WatchProvider{
		"US": {{ProviderID: 337, Name: "Disney Plus", Kind: domain.ProviderStream}},
	}

	providers, err := fetcher.Fetch(context.Background(), 42, "US")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("Expected refresh after TTL expiry, got %d calls", client.calls)
	}
	if len(providers) != 1 || providers[0].Name != "Disney Plus" {
		t.Errorf("Expected the replaced provider set, got %+v", providers)
	}
}

func TestProviderFetcher_NoProvidersCached(t *testing.T) {
	db := testStore(t)
	client := &mockProviders{byCountry: map[string][]domain.WatchProvider{
		"FR": {{ProviderID: 8, Name: "Netflix", Kind: domain.ProviderStream}},
	}}
	fetcher := NewProviderFetcher(db, client, testReleaseTTL, logger.Default())

	// No US offers and no fallback: availability elsewhere does not count.
	providers, err := fetcher.Fetch(context.Background(), 42, "US")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(providers) != 0 {
		t.Errorf("Expected no providers for US, got %+v", providers)
	}

	if _, err := fetcher.Fetch(context.Background(), 42, "US"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("Expected the empty outcome cached for US, got %d calls", client.calls)
	}
}

func TestProviderFetcher_TransportErrorPropagates(t *testing.T) {
	db := testStore(t)
	client := &mockProviders{err: &domain.TransportError{Op: "tmdb get", Err: errors.New("boom")}}
	fetcher := NewProviderFetcher(db, client, testReleaseTTL, logger.Default())

	_, err := fetcher.Fetch(context.Background(), 42, "US")
	if !domain.IsTransport(err) {
		t.Fatalf("Expected transport error, got %v", err)
	}

	cachedAt, _ := db.GetProviderRefresh(42, "US")
	if cachedAt != 0 {
		t.Error("Expected no ledger entry after failed refresh")
	}
}
