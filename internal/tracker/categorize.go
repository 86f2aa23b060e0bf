package tracker

import (
	"sort"
	"time"

	"github.com/adamjhf/timeboxd/internal/domain"
)

// Categorized holds one film's release events split into buckets, each
// sorted ascending by date and deduplicated.
type Categorized struct {
	Theatrical []domain.ReleaseEvent
	Streaming  []domain.ReleaseEvent
}

// Empty reports whether no relevant releases remain after filtering.
func (c Categorized) Empty() bool {
	return len(c.Theatrical) == 0 && len(c.Streaming) == 0
}

// Categorize is a pure function splitting a film's release events into
// theatrical and streaming buckets, keeping only events dated on or after
// asOf minus the recency window. Running it twice over the same input
// yields identical output.
func Categorize(events []domain.ReleaseEvent, asOf time.Time, window time.Duration) Categorized {
	cutoff := asOf.Add(-window).Format(domain.DateLayout)

	var out Categorized
	for _, ev := range events {
		if !ev.Type.Valid() || ev.Date < cutoff {
			continue
		}
		if ev.Type.Theatrical() {
			out.Theatrical = append(out.Theatrical, ev)
		} else {
			out.Streaming = append(out.Streaming, ev)
		}
	}

	sortBucket(out.Theatrical)
	sortBucket(out.Streaming)
	out.Theatrical = dedupeBucket(out.Theatrical)
	out.Streaming = dedupeBucket(out.Streaming)
	return out
}

func sortBucket(events []domain.ReleaseEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Type < events[j].Type
	})
}

func dedupeBucket(events []domain.ReleaseEvent) []domain.ReleaseEvent {
	if len(events) < 2 {
		return events
	}
	out := events[:1]
	for _, ev := range events[1:] {
		last := out[len(out)-1]
		if ev.Date == last.Date && ev.Type == last.Type && ev.Note == last.Note {
			continue
		}
		out = append(out, ev)
	}
	return out
}
