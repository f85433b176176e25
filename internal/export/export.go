// Package export writes the event collection in a portable format.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"eventmgr/internal/ical"
	"eventmgr/internal/lib/atomicfile"
	"eventmgr/internal/models"
	"eventmgr/internal/storage/jsonfile"
)

type Format string

const (
	JSON Format = "json"
	ICS  Format = "ics"
)

// ParseFormat accepts "json" or "ics" in any case. An empty name falls back to the
// extension of path, then to JSON.
func ParseFormat(name, path string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if name != string(ICS) {
			name = string(JSON)
		}
	}

	switch Format(name) {
	case JSON, ICS:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or ics)", name)
	}
}

// Write encodes events to w.
func Write(w io.Writer, f Format, events []models.Event, loc *time.Location, stamp time.Time) error {
	switch f {
	case JSON:
		if events == nil {
			events = []models.Event{}
		}
		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case ICS:
		return ical.Encode(w, events, loc, stamp)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteFile replaces path with the encoded events.
func WriteFile(path string, f Format, events []models.Event, loc *time.Location, stamp time.Time) error {
	const op = "export.WriteFile"

	switch f {
	case JSON:
		// Same document layout as the event file, so an export can be used as one.
		if err := jsonfile.New(path).Save(events); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case ICS:
		data, err := ical.Marshal(events, loc, stamp)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	default:
		return fmt.Errorf("%s: unknown export format %q", op, f)
	}
}
