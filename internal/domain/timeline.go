package domain

import (
	"sort"
	"time"
)

// TimelineEntry is an event annotated for display within its day window.
type TimelineEntry struct {
	Event
	CategoryName    string
	Color           string
	IsAnchor        bool
	AbsoluteMinutes int
	DurationMinutes int
	// OpenEnded marks the last activity of the day: it has no successor and
	// its duration runs to the day window end until the caller applies a
	// tail policy (TruncateToNow for the live day).
	OpenEnded bool
}

// DayTimeline is the derived, display-ready view of one day.
type DayTimeline struct {
	Day             string
	Entries         []TimelineEntry
	DayStartMinutes int
	DayEndMinutes   int
}

// DeriveDayTimeline orders one day's events around the wake anchor and
// annotates them with absolute minutes and durations.
//
// Absolute minutes are minutes since midnight, shifted +1440 for events whose
// wall-clock time falls before the anchor's: those logically happen after
// midnight, before the next day's wake. The day window starts at the anchor
// (or 0) and ends at 1440 raised to cover every event plus a trailing margin.
// Each non-anchor event runs until the next non-anchor event, floored at one
// minute; the anchor itself contributes zero.
func DeriveDayTimeline(day string, events []Event, categories map[string]Category, anchorID string) DayTimeline {
	entries := make([]TimelineEntry, 0, len(events))
	for _, ev := range events {
		cat := categories[ev.CategoryID]
		entries = append(entries, TimelineEntry{
			Event:        ev,
			CategoryName: cat.Name,
			Color:        cat.Color,
			IsAnchor:     ev.CategoryID == anchorID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})

	// First anchor after the instant sort supplies the wake time; later
	// wake entries ride along as ordinary zero-duration rows.
	wakeMinutes := -1
	for _, e := range entries {
		if e.IsAnchor {
			wakeMinutes = e.MinutesSinceMidnight()
			break
		}
	}

	for i := range entries {
		minutes := entries[i].MinutesSinceMidnight()
		absolute := minutes
		switch {
		case entries[i].IsAnchor:
			if wakeMinutes >= 0 {
				absolute = wakeMinutes
			}
		case wakeMinutes >= 0 && minutes < wakeMinutes:
			absolute = minutes + minutesPerDay
		}
		entries[i].AbsoluteMinutes = absolute
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AbsoluteMinutes < entries[j].AbsoluteMinutes
	})

	dayStart := 0
	if wakeMinutes >= 0 {
		dayStart = wakeMinutes
	}

	dayEnd := minutesPerDay
	if wakeMinutes >= 0 && wakeMinutes+1 > dayEnd {
		dayEnd = wakeMinutes + 1
	}
	for _, e := range entries {
		if e.IsAnchor {
			continue
		}
		margin := 1
		if e.AbsoluteMinutes >= minutesPerDay {
			margin = 60
		}
		if e.AbsoluteMinutes+margin > dayEnd {
			dayEnd = e.AbsoluteMinutes + margin
		}
	}

	// Single right-to-left pass: each non-anchor entry ends where the next
	// non-anchor entry starts.
	nextAbsolute := -1
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].IsAnchor {
			entries[i].DurationMinutes = 0
			continue
		}
		end := nextAbsolute
		if end < 0 {
			end = dayEnd
			entries[i].OpenEnded = true
		}
		if end <= entries[i].AbsoluteMinutes {
			end = entries[i].AbsoluteMinutes + 1
		}
		entries[i].DurationMinutes = end - entries[i].AbsoluteMinutes
		nextAbsolute = entries[i].AbsoluteMinutes
	}

	if dayEnd < dayStart+1 {
		dayEnd = dayStart + 1
	}

	return DayTimeline{
		Day:             day,
		Entries:         entries,
		DayStartMinutes: dayStart,
		DayEndMinutes:   dayEnd,
	}
}

// DeriveTimelines derives every day's timeline from a full event snapshot.
// Pure function over the snapshot; safe to recompute concurrently.
func DeriveTimelines(events []Event, categories map[string]Category, anchorID string) map[string]DayTimeline {
	byDay := make(map[string][]Event)
	for _, ev := range events {
		if ev.Day == "" {
			continue
		}
		byDay[ev.Day] = append(byDay[ev.Day], ev)
	}
	out := make(map[string]DayTimeline, len(byDay))
	for day, evs := range byDay {
		out[day] = DeriveDayTimeline(day, evs, categories, anchorID)
	}
	return out
}

// TruncateToNow resolves the open-ended tail of the live day: the last
// activity ends at the current minute instead of the day window end. The
// current minute is shifted +1440 when it precedes an anchored day start and
// clamped into [DayStartMinutes, DayEndMinutes]. Historic days should not be
// truncated; the Aggregator applies its own flat fallback instead.
func (t DayTimeline) TruncateToNow(now time.Time) DayTimeline {
	nowMinutes := now.Hour()*60 + now.Minute()
	nowAbsolute := nowMinutes

	hasAnchor := false
	for _, e := range t.Entries {
		if e.IsAnchor {
			hasAnchor = true
			break
		}
	}
	if hasAnchor && nowMinutes < t.DayStartMinutes {
		nowAbsolute = nowMinutes + minutesPerDay
	}
	if nowAbsolute < t.DayStartMinutes {
		nowAbsolute = t.DayStartMinutes
	}
	if nowAbsolute > t.DayEndMinutes {
		nowAbsolute = t.DayEndMinutes
	}

	entries := make([]TimelineEntry, len(t.Entries))
	copy(entries, t.Entries)
	for i := range entries {
		if !entries[i].OpenEnded {
			continue
		}
		duration := nowAbsolute - entries[i].AbsoluteMinutes
		if duration < 0 {
			duration = 0
		}
		entries[i].DurationMinutes = duration
	}
	t.Entries = entries
	return t
}
