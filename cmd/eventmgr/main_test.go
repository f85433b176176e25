package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"eventmgr/internal/auth"
	"eventmgr/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("EVENTMGR_CONFIG", "")
	t.Setenv("EVENTMGR_PASSWORD", "")
	t.Setenv("EVENTMGR_ENV", "test")
	t.Setenv("EVENTMGR_LOG_LEVEL", "error")
	t.Setenv("EVENTMGR_TIMEZONE", "UTC")
	t.Setenv("EVENTMGR_ADMIN_PASSWORD", "secret")
	t.Setenv("EVENTMGR_EVENTS_FILE", filepath.Join(dir, "events.json"))
	t.Setenv("EVENTMGR_ROSTER_FILE", filepath.Join(dir, "attendees.csv"))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = bytes.NewReader(nil)

	err := app.Run(append([]string{"eventmgr"}, args...))
	return out.String(), err
}

func TestEventCommands(t *testing.T) {
	dir := testEnv(t)

	_, err := run(t, "add", "--name", "Standup", "--type", "meeting", "--date", "2099-06-01", "--start", "09:00", "--end", "09:15")
	assert.ErrorIs(t, err, store.ErrUnauthorized)

	_, err = run(t, "add", "--name", "Standup", "--type", "meeting", "--date", "2099-06-01", "--start", "09:00", "--end", "09:15", "--password", "nope")
	assert.ErrorIs(t, err, auth.ErrBadPassword)

	out, err := run(t, "add", "--name", "Standup", "--type", "meeting", "--date", "2099-06-01", "--start", "09:00", "--end", "09:15", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Event added successfully!")

	out, err = run(t, "add", "--name", "Clash", "--type", "meeting", "--date", "2099-06-01", "--start", "09:10", "--end", "10:10", "--password", "secret")
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.Contains(t, out, "Suggested available time slots:")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Standup - 2099-06-01 09:00-09:15")
	assert.NotContains(t, out, "Clash")

	out, err = run(t, "list", "--date", "2099-06-02")
	require.NoError(t, err)
	assert.Contains(t, out, "No events found for 2099-06-02.")

	_, err = run(t, "list", "--date", "06/01/2099")
	assert.Error(t, err)

	out, err = run(t, "search", "STAND")
	require.NoError(t, err)
	assert.Contains(t, out, "Standup")

	out, err = run(t, "edit", "--start", "09:30", "--end", "09:45", "--location", "Room 9", "--password", "secret", "standup")
	require.NoError(t, err)
	assert.Contains(t, out, "Event edited successfully!")

	out, err = run(t, "show", "Standup")
	require.NoError(t, err)
	assert.Contains(t, out, "Time:        09:30-09:45")
	assert.Contains(t, out, "Location:    Room 9")

	out, err = run(t, "export", "--format", "ics")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "SUMMARY:Standup")

	exportPath := filepath.Join(dir, "backup.json")
	out, err = run(t, "export", "--out", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "exported to "+exportPath)

	out, err = run(t, "delete", "--password", "secret", "Standup")
	require.NoError(t, err)
	assert.Contains(t, out, "Event 'Standup' deleted successfully.")

	_, err = run(t, "show", "Standup")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAttendeeAndRemindCommands(t *testing.T) {
	testEnv(t)

	_, err := run(t, "add", "--name", "Launch", "--type", "release", "--date", "2099-06-01", "--start", "12:00", "--end", "13:00", "--password", "secret")
	require.NoError(t, err)

	_, err = run(t, "remind", "--window", "1000000h")
	assert.Error(t, err, "an empty roster is reported")

	_, err = run(t, "attendees", "add", "--email", "ana@example.com")
	assert.ErrorIs(t, err, store.ErrUnauthorized)

	out, err := run(t, "attendees", "add", "--email", "Ana@Example.com", "--name", "Ana", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Email 'ana@example.com' added to attendees list.")

	out, err = run(t, "attendees", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana <ana@example.com>")

	out, err = run(t, "remind")
	require.NoError(t, err)
	assert.Contains(t, out, "No events starting in the next 24h0m0s.")

	out, err = run(t, "remind", "--window", "1000000h")
	require.NoError(t, err)
	assert.Contains(t, out, "--- SIMULATED EMAIL REMINDER ---")
	assert.Contains(t, out, "Subject: Reminder: Upcoming Event - Launch")
	assert.Contains(t, out, "Reminders for 1 events sent to 1 attendees (1 messages).")

	out, err = run(t, "attendees", "remove", "--email", "ana@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "removed from attendees list")

	_, err = run(t, "attendees", "remove", "--email", "ana@example.com", "--password", "secret")
	assert.Error(t, err)
}

func TestShellIsDefaultAction(t *testing.T) {
	testEnv(t)

	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to the Smart Event Manager!")
	assert.Contains(t, out, "Goodbye!")
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env, level string
		debug      bool
	}{
		{env: envLocal, level: "debug", debug: true},
		{env: envDev, level: "error", debug: true},
		{env: envProd, level: "info", debug: false},
		{env: "other", level: "warn", debug: false},
	}

	for _, tt := range tests {
		log := setupLogger(tt.env, tt.level)
		require.NotNil(t, log)
		assert.Equal(t, tt.debug, log.Enabled(context.Background(), slog.LevelDebug), "env=%s level=%s", tt.env, tt.level)
	}
}
