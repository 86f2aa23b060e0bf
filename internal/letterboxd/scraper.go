// Package letterboxd scrapes a user's public watchlist.
package letterboxd

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/adamjhf/timeboxd/internal/constants"
	"github.com/adamjhf/timeboxd/internal/domain"
	"github.com/adamjhf/timeboxd/internal/logger"
)

// Source produces the watchlist entries for a username. Failures here are
// batch-level: without a watchlist there is nothing to process.
type Source interface {
	Watchlist(ctx context.Context, username string, cutoffYear int) ([]domain.WatchlistEntry, error)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration
	log        *logger.Logger
}

func NewClient(baseURL string, delay time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		delay:   delay,
		log:     log.WithComponent("letterboxd"),
		httpClient: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
	}
}

var _ Source = (*Client)(nil)

// Watchlist walks the paginated watchlist sorted by release date, newest
// first. It stops on an empty page or once a whole page of films predates
// the cutoff year, and dedupes by slug across pages.
func (c *Client) Watchlist(ctx context.Context, username string, cutoffYear int) ([]domain.WatchlistEntry, error) {
	var out []domain.WatchlistEntry
	seen := make(map[string]bool)

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/%s/watchlist/by/release/", c.baseURL, username)
		if page > 1 {
			url = fmt.Sprintf("%s/%s/watchlist/by/release/page/%d/", c.baseURL, username, page)
		}

		entries, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}
		c.log.Debug("fetched watchlist page", "username", username, "page", page, "films", len(entries))

		if len(entries) == 0 {
			break
		}

		allOld := true
		for _, entry := range entries {
			if entry.Year == 0 || entry.Year >= cutoffYear {
				allOld = false
			}
			if !seen[entry.Slug] {
				seen[entry.Slug] = true
				out = append(out, entry)
			}
		}
		if allOld {
			break
		}

		// Polite inter-page delay with jitter.
		timer := time.NewTimer(c.delay + time.Duration(rand.Int63n(150))*time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.log.Info("completed watchlist fetch", "username", username, "total_films", len(out))
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, url string) ([]domain.WatchlistEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", c.baseURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "letterboxd get", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("letterboxd user not found")
	default:
		return nil, &domain.TransportError{Op: "letterboxd get", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	return parseWatchlistPage(resp.Body)
}
