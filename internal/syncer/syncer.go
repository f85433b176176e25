package syncer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"time"

	"eventmgr/internal/ical"
	"eventmgr/internal/lib/atomicfile"
	"eventmgr/internal/models"
)

// State keeps track of which events have been published.
// The key is the event ID, and the value is a fingerprint of what was uploaded.
type State map[string]string

// Remote is the calendar collection events are published to.
type Remote interface {
	Put(ctx context.Context, name string, data []byte) error
	Remove(ctx context.Context, name string) error
}

// Result counts what one publish cycle did.
type Result struct {
	Created int
	Updated int
	Removed int
	Skipped int
	Failed  int
}

// Syncer mirrors the local event collection into a CalDAV calendar.
type Syncer struct {
	logger    *slog.Logger
	remote    Remote
	stateFile string
	state     State
	dryRun    bool
	loc       *time.Location
}

// NewSyncer creates a new Syncer.
func NewSyncer(logger *slog.Logger, remote Remote, stateFile string, loc *time.Location, dryRun bool) (*Syncer, error) {
	state, err := loadState(stateFile)
	if err != nil {
		// If the file doesn't exist, we can start with an empty state.
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("No publish state file found, starting fresh.", "file", stateFile)
			state = make(State)
		} else {
			return nil, fmt.Errorf("failed to load publish state: %w", err)
		}
	}

	return &Syncer{
		logger:    logger,
		remote:    remote,
		stateFile: stateFile,
		state:     state,
		dryRun:    dryRun,
		loc:       loc,
	}, nil
}

// Sync uploads new and changed events and removes events that no longer exist locally.
// The state of everything already published is saved even when ctx ends the cycle early.
func (s *Syncer) Sync(ctx context.Context, events []models.Event, now time.Time) (Result, error) {
	s.logger.Info("Starting publish cycle.", "events", len(events))

	res, syncErr := s.publish(ctx, events, now)

	if !s.dryRun {
		if err := s.saveState(); err != nil {
			s.logger.Error("Failed to save publish state", "error", err)
			return res, errors.Join(syncErr, err)
		}
	}
	if syncErr != nil {
		s.logger.Warn("Publish cycle interrupted.", "error", syncErr)
		return res, syncErr
	}

	s.logger.Info("Publish cycle finished.",
		"created", res.Created, "updated", res.Updated, "removed", res.Removed,
		"skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

func (s *Syncer) publish(ctx context.Context, events []models.Event, now time.Time) (Result, error) {
	var res Result
	live := make(map[string]struct{}, len(events))

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		live[event.ID] = struct{}{}

		created, changed, err := s.syncEvent(ctx, event, now)
		switch {
		case err != nil:
			s.logger.Error("Failed to publish event", "name", event.Name, "id", event.ID, "error", err)
			// Continue with the next event even if one fails.
			res.Failed++
		case !changed:
			res.Skipped++
		case created:
			res.Created++
		default:
			res.Updated++
		}
	}

	for _, id := range s.staleIDs(live) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if s.dryRun {
			s.logger.Info("[DRY RUN] Would remove event from calendar", "id", id)
			res.Removed++
			continue
		}
		if err := s.remote.Remove(ctx, objectName(id)); err != nil {
			s.logger.Error("Failed to remove event", "id", id, "error", err)
			res.Failed++
			continue
		}
		delete(s.state, id)
		res.Removed++
	}

	return res, nil
}

// syncEvent uploads a single event unless its fingerprint is unchanged.
func (s *Syncer) syncEvent(ctx context.Context, event models.Event, now time.Time) (created, changed bool, err error) {
	fp, err := fingerprint(event, s.loc)
	if err != nil {
		return false, false, err
	}

	previous, exists := s.state[event.ID]
	if exists && previous == fp {
		s.logger.Debug("Event unchanged, skipping.", "name", event.Name, "id", event.ID)
		return false, false, nil
	}

	if s.dryRun {
		s.logger.Info("[DRY RUN] Would publish event", "name", event.Name, "date", event.Date, "start", event.Start)
		return !exists, true, nil
	}

	data, err := ical.Marshal([]models.Event{event}, s.loc, now)
	if err != nil {
		return false, false, err
	}

	if err := s.remote.Put(ctx, objectName(event.ID), data); err != nil {
		return false, false, err
	}

	// If successful, update the state.
	s.state[event.ID] = fp
	return !exists, true, nil
}

func (s *Syncer) staleIDs(live map[string]struct{}) []string {
	var ids []string
	for id := range s.state {
		if _, ok := live[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func objectName(id string) string {
	return ical.UID(models.Event{ID: id}) + ".ics"
}

func fingerprint(event models.Event, loc *time.Location) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write(data)
	if loc != nil {
		h.Write([]byte(loc.String()))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// loadState loads the publish state from the JSON file.
func loadState(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	state := make(State)
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return state, nil
}

// saveState saves the current publish state to the JSON file.
func (s *Syncer) saveState() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal publish state: %w", err)
	}
	return atomicfile.WriteFile(s.stateFile, data, 0o644)
}
