// Package tmdb implements the upstream movie-catalog client. Every call is
// gated by the shared rate limiter and retried with backoff on transient
// failures.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/adamjhf/timeboxd/internal/constants"
	"github.com/adamjhf/timeboxd/internal/domain"
	"github.com/adamjhf/timeboxd/internal/ratelimit"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    ratelimit.Limiter
	retryDelay time.Duration
}

func NewClient(baseURL, apiKey string, limiter ratelimit.Limiter) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		limiter:    limiter,
		retryDelay: constants.DefaultRetryBase,
		httpClient: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
	}
}

// SearchMovie returns the candidates TMDB knows for a title, optionally
// narrowed by year. An empty slice means no match, which is a normal
// outcome, not an error.
func (c *Client) SearchMovie(ctx context.Context, title string, year int) ([]Candidate, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", title)
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	u := fmt.Sprintf("%s/search/movie?%s", c.baseURL, q.Encode())

	var resp searchResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, m := range resp.Results {
		candidates = append(candidates, Candidate{
			ID:         m.ID,
			Title:      m.Title,
			Year:       yearOf(m.ReleaseDate),
			PosterPath: m.PosterPath,
		})
	}
	return candidates, nil
}

// ReleaseDates fetches the full per-country release table for a movie in a
// single call. Unknown release type codes are dropped; dates are normalized
// to YYYY-MM-DD; country codes are upper-cased.
func (c *Client) ReleaseDates(ctx context.Context, tmdbID int) (map[string][]domain.ReleaseEvent, error) {
	u := fmt.Sprintf("%s/movie/%d/release_dates?api_key=%s", c.baseURL, tmdbID, url.QueryEscape(c.apiKey))

	var resp releaseDatesResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	byCountry := make(map[string][]domain.ReleaseEvent, len(resp.Results))
	for _, res := range resp.Results {
		country := strings.ToUpper(strings.TrimSpace(res.CountryCode))
		if country == "" {
			continue
		}
		for _, rd := range res.ReleaseDates {
			kind := domain.ReleaseType(rd.Type)
			if !kind.Valid() {
				continue
			}
			date, err := parseReleaseDate(rd.ReleaseDate)
			if err != nil {
				continue
			}
			byCountry[country] = append(byCountry[country], domain.ReleaseEvent{
				TMDBID:  tmdbID,
				Country: country,
				Date:    date,
				Type:    kind,
				Note:    strings.TrimSpace(rd.Note),
			})
		}
	}
	return byCountry, nil
}

// WatchProviders fetches where a movie can currently be watched, per
// country. TMDB reports streaming, rental and purchase offers separately;
// each becomes its own provider kind. The per-country watch link is copied
// onto every provider of that country.
func (c *Client) WatchProviders(ctx context.Context, tmdbID int) (map[string][]domain.WatchProvider, error) {
	u := fmt.Sprintf("%s/movie/%d/watch/providers?api_key=%s", c.baseURL, tmdbID, url.QueryEscape(c.apiKey))

	var resp watchProvidersResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	byCountry := make(map[string][]domain.WatchProvider, len(resp.Results))
	for code, offers := range resp.Results {
		country := strings.ToUpper(strings.TrimSpace(code))
		if country == "" {
			continue
		}
		appendProviders(byCountry, tmdbID, country, offers.Link, domain.ProviderStream, offers.Flatrate)
		appendProviders(byCountry, tmdbID, country, offers.Link, domain.ProviderRent, offers.Rent)
		appendProviders(byCountry, tmdbID, country, offers.Link, domain.ProviderBuy, offers.Buy)
	}
	return byCountry, nil
}

func appendProviders(byCountry map[string][]domain.WatchProvider, tmdbID int, country, link string, kind domain.ProviderKind, offers []watchProvider) {
	for _, p := range offers {
		byCountry[country] = append(byCountry[country], domain.WatchProvider{
			TMDBID:     tmdbID,
			Country:    country,
			ProviderID: p.ProviderID,
			Name:       p.ProviderName,
			LogoPath:   p.LogoPath,
			Link:       link,
			Kind:       kind,
		})
	}
}

// getJSON performs a rate-limited GET with retry on transient failures. A
// 404 decodes as the type's zero value: "does not exist" is a cacheable
// outcome for both endpoints.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	return retry.Do(
		func() error {
			if err := c.limiter.Acquire(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return &domain.TransportError{Op: "tmdb get", Err: err}
			}
			defer func() {
				_ = resp.Body.Close()
			}()

			switch {
			case resp.StatusCode == http.StatusOK:
			case resp.StatusCode == http.StatusNotFound:
				return nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				// The limiter should prevent 429s; treat a stray one
				// like any other transient upstream failure.
				return &domain.TransportError{Op: "tmdb get", Err: fmt.Errorf("status %d", resp.StatusCode)}
			default:
				return retry.Unrecoverable(fmt.Errorf("tmdb returned status %d", resp.StatusCode))
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to decode response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(constants.DefaultRetryCount),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func parseReleaseDate(s string) (string, error) {
	// TMDB returns RFC 3339 timestamps; only the calendar date matters.
	if len(s) >= len(domain.DateLayout) {
		s = s[:len(domain.DateLayout)]
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(domain.DateLayout), nil
}

func yearOf(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}
