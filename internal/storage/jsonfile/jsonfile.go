package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"eventmgr/internal/lib/atomicfile"
	"eventmgr/internal/models"
)

// Storage persists the whole event collection as one JSON document.
type Storage struct {
	path string
}

func New(path string) *Storage {
	return &Storage{path: path}
}

func (s *Storage) Path() string {
	return s.path
}

// Load reads every event from the file. A missing or empty file yields no events.
func (s *Storage) Load() ([]models.Event, error) {
	const op = "storage.jsonfile.Load"

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", op, s.path, err)
	}

	return events, nil
}

// Save replaces the file with events. The document is written to a temp file in
// the same directory and renamed over the target.
func (s *Storage) Save(events []models.Event) error {
	const op = "storage.jsonfile.Save"

	if events == nil {
		events = []models.Event{}
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}
	data = append(data, '\n')

	if err := atomicfile.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
