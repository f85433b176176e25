package store

import (
	"errors"
	"fmt"

	"eventmgr/internal/models"
)

var (
	ErrNotFound     = errors.New("event not found")
	ErrConflict     = errors.New("event conflicts with an existing event")
	ErrUnauthorized = errors.New("admin role required")
	ErrAmbiguous    = errors.New("reference matches more than one event")
)

// ConflictError names the stored event a candidate collided with.
type ConflictError struct {
	Existing models.Event
	// Suggestions are free start times on the same date, if any were found.
	Suggestions []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicts with %q on %s %s-%s [%s]",
		e.Existing.Name, e.Existing.Date, e.Existing.Start, e.Existing.End, models.ShortID(e.Existing.ID))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
