package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports the first offending field of a record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

var validate = validator.New()

// NormalizeEvent trims text fields, validates e and rewrites Date, Start and End
// in their canonical zero-padded layouts.
func NormalizeEvent(e Event) (Event, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Type = strings.TrimSpace(e.Type)
	e.Date = strings.TrimSpace(e.Date)
	e.Start = strings.TrimSpace(e.Start)
	e.End = strings.TrimSpace(e.End)
	e.Location = strings.TrimSpace(e.Location)
	e.Description = strings.TrimSpace(e.Description)

	if err := validate.Struct(e); err != nil {
		return Event{}, fromValidator(err)
	}

	day, _ := time.Parse(DateLayout, e.Date)
	start, _ := time.Parse(ClockLayout, e.Start)
	end, _ := time.Parse(ClockLayout, e.End)
	e.Date = day.Format(DateLayout)
	e.Start = start.Format(ClockLayout)
	e.End = end.Format(ClockLayout)

	if !start.Before(end) {
		return Event{}, &ValidationError{Field: "end", Reason: "must be after start"}
	}

	return e, nil
}

// NormalizeAttendee trims and validates a roster entry. Emails are lower-cased.
func NormalizeAttendee(a Attendee) (Attendee, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))

	if err := validate.Struct(a); err != nil {
		return Attendee{}, fromValidator(err)
	}
	return a, nil
}

func fromValidator(err error) error {
	var validateErr validator.ValidationErrors
	if !errors.As(err, &validateErr) || len(validateErr) == 0 {
		return &ValidationError{Field: "record", Reason: err.Error()}
	}

	fe := validateErr[0]
	field := strings.ToLower(fe.Field())

	switch fe.ActualTag() {
	case "required":
		return &ValidationError{Field: field, Reason: "is required"}
	case "datetime":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must match %s", humanLayout(fe.Param()))}
	case "email":
		return &ValidationError{Field: field, Reason: "is not a valid email address"}
	default:
		return &ValidationError{Field: field, Reason: fmt.Sprintf("failed %s", fe.ActualTag())}
	}
}

func humanLayout(layout string) string {
	switch layout {
	case DateLayout:
		return "YYYY-MM-DD"
	case ClockLayout:
		return "HH:MM"
	default:
		return layout
	}
}
