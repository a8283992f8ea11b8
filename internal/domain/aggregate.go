package domain

import (
	"math"
	"sort"
)

// CategoryTotal is the aggregate time spent in one category across all days.
type CategoryTotal struct {
	Name  string
	Color string
	// Hours is rounded to one decimal place.
	Hours float64
}

// TotalsByCategory sums elapsed time per category across all days, anchor
// events excluded entirely.
//
// This deliberately does not share the timeline derivation's semantics:
// events are ordered by (day, instant) with anchor rows already removed, each
// event runs until the next remaining event of the same day regardless of
// category (no cross-midnight shift), and the last event of a day counts as
// a flat 60 minutes. Long-run totals tolerate that approximation; the per-day
// view does not.
func TotalsByCategory(events []Event, categories map[string]Category, anchorID string) []CategoryTotal {
	filtered := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.CategoryID == anchorID {
			continue
		}
		filtered = append(filtered, ev)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Day != filtered[j].Day {
			return filtered[i].Day < filtered[j].Day
		}
		return filtered[i].StartedAt.Before(filtered[j].StartedAt)
	})

	type bucket struct {
		name    string
		color   string
		minutes float64
	}
	order := make([]string, 0)
	buckets := make(map[string]*bucket)

	for i, ev := range filtered {
		minutes := 60.0
		if i+1 < len(filtered) && filtered[i+1].Day == ev.Day {
			delta := filtered[i+1].StartedAt.Sub(ev.StartedAt).Minutes()
			if delta < 0 {
				delta = 0
			}
			minutes = delta
		}

		b, ok := buckets[ev.CategoryID]
		if !ok {
			cat := categories[ev.CategoryID]
			b = &bucket{name: cat.Name, color: cat.Color}
			buckets[ev.CategoryID] = b
			order = append(order, ev.CategoryID)
		}
		b.minutes += minutes
	}

	totals := make([]CategoryTotal, 0, len(order))
	for _, id := range order {
		b := buckets[id]
		totals = append(totals, CategoryTotal{
			Name:  b.name,
			Color: b.color,
			Hours: math.Round(b.minutes/60*10) / 10,
		})
	}
	return totals
}
