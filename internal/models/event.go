package models

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the on-disk and CLI format of Event.Date.
	DateLayout = "2006-01-02"
	// ClockLayout is the on-disk and CLI format of Event.Start and Event.End.
	ClockLayout = "15:04"
)

// Event represents a single scheduled occurrence.
// Date, Start and End are naive wall-clock values; they carry no zone.
type Event struct {
	ID          string `json:"id"`                                           // Unique identifier, assigned on add
	Name        string `json:"name" validate:"required"`                     // Human readable title
	Type        string `json:"type" validate:"required"`                     // Category, e.g. "meeting"
	Date        string `json:"date" validate:"required,datetime=2006-01-02"` // Calendar date
	Start       string `json:"start" validate:"required,datetime=15:04"`     // Time of day the event begins
	End         string `json:"end" validate:"required,datetime=15:04"`       // Time of day the event ends
	Location    string `json:"location,omitempty"`                           // Optional place
	Description string `json:"description,omitempty"`                        // Optional free text
}

// EventChanges is a partial update. Nil fields are left untouched.
type EventChanges struct {
	Name        *string
	Type        *string
	Date        *string
	Start       *string
	End         *string
	Location    *string
	Description *string
}

// Apply returns a copy of e with the non-nil fields of c applied.
func (c EventChanges) Apply(e Event) Event {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.Name, c.Name)
	set(&e.Type, c.Type)
	set(&e.Date, c.Date)
	set(&e.Start, c.Start)
	set(&e.End, c.End)
	set(&e.Location, c.Location)
	set(&e.Description, c.Description)
	return e
}

// Day parses Date.
func (e Event) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// StartTime returns the instant the event begins, interpreted in loc.
func (e Event) StartTime(loc *time.Location) (time.Time, error) {
	return e.instant(e.Start, loc)
}

// EndTime returns the instant the event ends, interpreted in loc.
func (e Event) EndTime(loc *time.Location) (time.Time, error) {
	return e.instant(e.End, loc)
}

func (e Event) instant(clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, e.Date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("event %q: %w", e.ID, err)
	}
	return t, nil
}

// Duration is End minus Start. It is not meaningful for invalid events.
func (e Event) Duration() time.Duration {
	s, err1 := time.Parse(ClockLayout, e.Start)
	f, err2 := time.Parse(ClockLayout, e.End)
	if err1 != nil || err2 != nil {
		return 0
	}
	return f.Sub(s)
}

// Less orders events by date, start, end, then name and id so listings are stable.
// The zero-padded layouts make lexical order chronological.
func Less(a, b Event) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End < b.End
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

// String renders the one-line listing form used by the CLI.
func (e Event) String() string {
	loc := e.Location
	if loc == "" {
		loc = "-"
	}
	return fmt.Sprintf("[%s] %s - %s %s-%s @ %s (%s)", ShortID(e.ID), e.Name, e.Date, e.Start, e.End, loc, e.Type)
}

// ShortID returns the first 8 characters of an id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
