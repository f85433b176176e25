// Package schedule holds the time arithmetic behind the event store: interval
// overlap, conflict lookup, free slot suggestions and reminder selection.
//
// All functions operate on already validated events (see models.NormalizeEvent).
package schedule

import (
	"sort"
	"time"

	"eventmgr/internal/models"
)

// Overlaps reports whether a and b share a date and their [start, end) ranges intersect.
// An event ending exactly when the other begins does not overlap it, and a record never
// overlaps itself.
func Overlaps(a, b models.Event) bool {
	if a.ID != "" && a.ID == b.ID {
		return false
	}
	if a.Date != b.Date {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

// FindConflict returns the first event in events, in the given order, that overlaps
// candidate. The event with excludeID is skipped so an edit is not compared with its
// own previous version.
func FindConflict(events []models.Event, candidate models.Event, excludeID string) (models.Event, bool) {
	for _, e := range events {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if e.Date != candidate.Date {
			continue
		}
		if Overlaps(candidate, e) {
			return e, true
		}
	}
	return models.Event{}, false
}

// SuggestSlots proposes up to n start times on candidate's date, probing every full
// hour from midnight, where an event of candidate's duration fits without conflict and
// still ends the same day.
func SuggestSlots(events []models.Event, candidate models.Event, excludeID string, n int) []string {
	duration := candidate.Duration()
	if duration <= 0 || n <= 0 {
		return nil
	}

	day := 24 * time.Hour
	var slots []string
	for offset := time.Duration(0); offset+duration <= day && len(slots) < n; offset += time.Hour {
		trial := candidate
		trial.Start = clock(offset)
		trial.End = clock(offset + duration)
		if offset+duration == day {
			// "24:00" sorts after every valid clock value.
			trial.End = "24:00"
		}
		if _, found := FindConflict(events, trial, excludeID); !found {
			slots = append(slots, trial.Start)
		}
	}
	return slots
}

func clock(d time.Duration) string {
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format(models.ClockLayout)
}

// SelectUpcoming returns the events whose start instant, interpreted in loc, lies in
// [now, now+window), ordered by start ascending. Events that fail to parse are skipped.
func SelectUpcoming(events []models.Event, now time.Time, window time.Duration, loc *time.Location) []models.Event {
	type timed struct {
		start time.Time
		event models.Event
	}

	horizon := now.Add(window)
	var selected []timed
	for _, e := range events {
		start, err := e.StartTime(loc)
		if err != nil {
			continue
		}
		if start.Before(now) || !start.Before(horizon) {
			continue
		}
		selected = append(selected, timed{start: start, event: e})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if !selected[i].start.Equal(selected[j].start) {
			return selected[i].start.Before(selected[j].start)
		}
		return models.Less(selected[i].event, selected[j].event)
	})

	out := make([]models.Event, 0, len(selected))
	for _, s := range selected {
		out = append(out, s.event)
	}
	return out
}
