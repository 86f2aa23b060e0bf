package letterboxd

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/adamjhf/timeboxd/internal/domain"
)

// parseWatchlistPage extracts watchlist entries from one page of HTML.
// Each film is a react-component element carrying data-item-slug and
// data-item-name attributes; the year, when present, trails the name in
// parentheses.
func parseWatchlistPage(r io.Reader) ([]domain.WatchlistEntry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var entries []domain.WatchlistEntry

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			slug := attr(n, "data-item-slug")
			name := attr(n, "data-item-name")
			if slug != "" && name != "" {
				title, year := splitTrailingYear(name)
				entries = append(entries, domain.WatchlistEntry{
					Slug:  slug,
					Title: title,
					Year:  year,
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return entries, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// splitTrailingYear splits "Title (2024)" into ("Title", 2024). Titles
// without a 4-digit parenthesized suffix return year 0.
func splitTrailingYear(title string) (string, int) {
	s := strings.TrimSpace(title)
	if !strings.HasSuffix(s, ")") {
		return s, 0
	}
	open := strings.LastIndex(s, "(")
	if open < 0 {
		return s, 0
	}
	inside := s[open+1 : len(s)-1]
	if len(inside) != 4 {
		return s, 0
	}
	year, err := strconv.Atoi(inside)
	if err != nil {
		return s, 0
	}
	return strings.TrimSpace(s[:open]), year
}
