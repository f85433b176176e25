package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() Event {
	return Event{
		Name:  "Team Sync",
		Type:  "meeting",
		Date:  "2024-01-01",
		Start: "10:00",
		End:   "11:00",
	}
}

func TestNormalizeEvent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		mutate    func(e *Event)
		wantField string
	}{
		{name: "Valid", mutate: func(e *Event) {}},
		{name: "Missing name", mutate: func(e *Event) { e.Name = "   " }, wantField: "name"},
		{name: "Missing type", mutate: func(e *Event) { e.Type = "" }, wantField: "type"},
		{name: "Bad date", mutate: func(e *Event) { e.Date = "01-01-2024" }, wantField: "date"},
		{name: "Bad start", mutate: func(e *Event) { e.Start = "25:00" }, wantField: "start"},
		{name: "Missing end", mutate: func(e *Event) { e.End = "" }, wantField: "end"},
		{name: "End equals start", mutate: func(e *Event) { e.End = "10:00" }, wantField: "end"},
		{name: "End before start", mutate: func(e *Event) { e.End = "09:00" }, wantField: "end"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := validEvent()
			tc.mutate(&e)

			_, err := NormalizeEvent(e)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.wantField, vErr.Field)
		})
	}
}

func TestNormalizeEventCanonicalizes(t *testing.T) {
	t.Parallel()

	e := validEvent()
	e.Name = "  Team Sync "
	e.Start = "9:05"
	e.End = "10:30"

	got, err := NormalizeEvent(e)
	require.NoError(t, err)

	assert.Equal(t, "Team Sync", got.Name)
	assert.Equal(t, "09:05", got.Start)
	assert.Equal(t, 85*time.Minute, got.Duration())
}

func TestNormalizeAttendee(t *testing.T) {
	t.Parallel()

	got, err := NormalizeAttendee(Attendee{Name: " Ada ", Email: " Ada@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, Attendee{Name: "Ada", Email: "ada@example.com"}, got)

	_, err = NormalizeAttendee(Attendee{Name: "Bob", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NormalizeAttendee(Attendee{Name: "Bob"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEventChangesApply(t *testing.T) {
	t.Parallel()

	name := "Renamed"
	loc := ""
	e := validEvent()
	e.Location = "Room 1"

	got := EventChanges{Name: &name, Location: &loc}.Apply(e)

	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "", got.Location)
	assert.Equal(t, e.Start, got.Start)
	assert.Equal(t, "Team Sync", e.Name, "input must not change")
}

func TestEventInstants(t *testing.T) {
	t.Parallel()

	e := validEvent()

	start, err := e.StartTime(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), start)

	end, err := e.EndTime(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), end)
}

func TestLess(t *testing.T) {
	t.Parallel()

	a := Event{ID: "a", Date: "2024-01-01", Start: "10:00", End: "11:00"}
	b := Event{ID: "b", Date: "2024-01-01", Start: "09:00", End: "10:00"}
	c := Event{ID: "c", Date: "2023-12-31", Start: "23:00", End: "23:30"}

	assert.True(t, Less(b, a))
	assert.True(t, Less(c, b))
	assert.False(t, Less(a, a))
}
