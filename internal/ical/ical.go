// Package ical converts events to iCalendar documents for export and CalDAV publishing.
package ical

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"eventmgr/internal/models"

	goical "github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const ProductID = "-//eventmgr//EN"

const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ProductID + "\r\nEND:VCALENDAR\r\n"

// uidNamespace scopes the name-based UUIDs derived from event ids.
var uidNamespace = uuid.MustParse("6f1c2a9e-4b1d-4b8e-9a52-3c0f9f3e2d10")

// UID returns the stable iCalendar UID of an event.
func UID(e models.Event) string {
	return uuid.NewSHA1(uidNamespace, []byte(e.ID)).String()
}

// Component converts e to a VEVENT. Times are interpreted in loc; time.Local yields
// floating times, UTC yields "Z" times and any other zone a TZID parameter.
func Component(e models.Event, loc *time.Location, stamp time.Time) (*goical.Component, error) {
	start, err := e.StartTime(loc)
	if err != nil {
		return nil, err
	}
	end, err := e.EndTime(loc)
	if err != nil {
		return nil, err
	}

	ve := goical.NewComponent(goical.CompEvent)
	ve.Props.SetText(goical.PropUID, UID(e))
	ve.Props.SetText(goical.PropSummary, e.Name)
	ve.Props.SetDateTime(goical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDateTime(goical.PropDateTimeStart, start)
	ve.Props.SetDateTime(goical.PropDateTimeEnd, end)
	ve.Props.SetText(goical.PropCategories, e.Type)

	if e.Description != "" {
		ve.Props.SetText(goical.PropDescription, e.Description)
	}
	if e.Location != "" {
		ve.Props.SetText(goical.PropLocation, e.Location)
	}
	return ve, nil
}

// Calendar wraps events in a VCALENDAR.
func Calendar(events []models.Event, loc *time.Location, stamp time.Time) (*goical.Calendar, error) {
	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, ProductID)

	for _, e := range events {
		ve, err := Component(e, loc, stamp)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
		cal.Children = append(cal.Children, ve)
	}
	return cal, nil
}

// Encode writes events as one iCalendar document.
func Encode(w io.Writer, events []models.Event, loc *time.Location, stamp time.Time) error {
	if len(events) == 0 {
		// The encoder rejects a VCALENDAR without components.
		_, err := io.WriteString(w, emptyCalendar)
		return err
	}

	cal, err := Calendar(events, loc, stamp)
	if err != nil {
		return err
	}
	if err := goical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// Marshal is Encode into a byte slice.
func Marshal(events []models.Event, loc *time.Location, stamp time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, events, loc, stamp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
