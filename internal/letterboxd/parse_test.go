package letterboxd

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<ul class="poster-list">
  <li class="griditem">
    <div class="react-component" data-item-slug="the-substance" data-item-name="The Substance (2024)"></div>
  </li>
  <li class="griditem">
    <div class="react-component" data-item-slug="mickey-17" data-item-name="Mickey 17 (2025)"></div>
  </li>
  <li class="griditem">
    <div class="react-component" data-item-slug="untitled-film" data-item-name="Untitled Film"></div>
  </li>
  <li class="griditem">
    <div class="react-component" data-item-slug=""></div>
  </li>
</ul>
</body></html>`

func TestParseWatchlistPage(t *testing.T) {
	entries, err := parseWatchlistPage(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("parseWatchlistPage failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	if entries[0].Slug != "the-substance" || entries[0].Title != "The Substance" || entries[0].Year != 2024 {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if entries[1].Year != 2025 {
		t.Errorf("Expected year 2025, got %d", entries[1].Year)
	}
	if entries[2].Title != "Untitled Film" || entries[2].Year != 0 {
		t.Errorf("Expected no year for third entry, got %+v", entries[2])
	}
}

func TestParseWatchlistPage_Empty(t *testing.T) {
	entries, err := parseWatchlistPage(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("parseWatchlistPage failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestSplitTrailingYear(t *testing.T) {
	tests := []struct {
		in    string
		title string
		year  int
	}{
		{"The Substance (2024)", "The Substance", 2024},
		{"No Year", "No Year", 0},
		{"Weird (Ending)", "Weird (Ending)", 0},
		{"Nested (Title) (1999)", "Nested (Title)", 1999},
		{" Trimmed (2020) ", "Trimmed", 2020},
		{"(2001)", "", 2001},
	}

	for _, tt := range tests {
		title, year := splitTrailingYear(tt.in)
		if title != tt.title || year != tt.year {
			t.Errorf("splitTrailingYear(%q) = (%q, %d), want (%q, %d)", tt.in, title, year, tt.title, tt.year)
		}
	}
}
