package store

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"eventmgr/internal/auth"
	"eventmgr/internal/lib/logger/sl"
	"eventmgr/internal/models"
	"eventmgr/internal/schedule"

	"github.com/google/uuid"
)

const suggestionCount = 3

// minPrefix is the shortest id prefix Find accepts.
const minPrefix = 4

// Persister loads and saves the whole collection.
type Persister interface {
	Load() ([]models.Event, error)
	Save(events []models.Event) error
}

// Store is the authoritative in-memory event collection for a session.
// Every successful mutation is written through to the Persister before it returns.
type Store struct {
	mu      sync.RWMutex
	events  []models.Event // kept sorted by models.Less
	persist Persister
	log     *slog.Logger
	newID   func() string
	retired map[string]struct{} // ids deleted this session
}

type Option func(*Store)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// Open loads the collection from p.
func Open(log *slog.Logger, p Persister, opts ...Option) (*Store, error) {
	const op = "store.Open"

	loaded, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	events := make([]models.Event, 0, len(loaded))
	for i, e := range loaded {
		if e.ID == "" {
			return nil, fmt.Errorf("%s: record %d: missing id", op, i)
		}
		normalized, err := models.NormalizeEvent(e)
		if err != nil {
			return nil, fmt.Errorf("%s: record %s: %w", op, e.ID, err)
		}
		events = append(events, normalized)
	}

	s := &Store{
		events:  events,
		persist: p,
		log:     log.With(slog.String("component", "store")),
		newID:   uuid.NewString,
		retired: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	slices.SortStableFunc(s.events, compare)

	s.log.Debug("events loaded", slog.Int("count", len(s.events)))

	return s, nil
}

func compare(a, b models.Event) int {
	switch {
	case models.Less(a, b):
		return -1
	case models.Less(b, a):
		return 1
	default:
		return 0
	}
}

// Add validates e, rejects it if it overlaps a stored event and otherwise stores it
// under a fresh id.
func (s *Store) Add(role auth.Role, e models.Event) (models.Event, error) {
	const op = "store.Add"

	if !role.IsAdmin() {
		return models.Event{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	e, err := models.NormalizeEvent(e)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, found := schedule.FindConflict(s.events, e, ""); found {
		return models.Event{}, fmt.Errorf("%s: %w", op, &ConflictError{
			Existing:    existing,
			Suggestions: schedule.SuggestSlots(s.events, e, "", suggestionCount),
		})
	}

	e.ID = s.freshID()

	next := append(slices.Clone(s.events), e)
	slices.SortStableFunc(next, compare)

	if err := s.commit(next); err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("event added", slog.String("id", e.ID), slog.String("name", e.Name))

	return e, nil
}

// Edit applies changes to the event with id. The result is validated and checked
// against every other event before it replaces the stored record.
func (s *Store) Edit(role auth.Role, id string, changes models.EventChanges) (models.Event, error) {
	const op = "store.Edit"

	if !role.IsAdmin() {
		return models.Event{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Event{}, fmt.Errorf("%s: %s: %w", op, id, ErrNotFound)
	}

	updated, err := models.NormalizeEvent(changes.Apply(s.events[idx]))
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	updated.ID = id

	if existing, found := schedule.FindConflict(s.events, updated, id); found {
		return models.Event{}, fmt.Errorf("%s: %w", op, &ConflictError{
			Existing:    existing,
			Suggestions: schedule.SuggestSlots(s.events, updated, id, suggestionCount),
		})
	}

	next := slices.Clone(s.events)
	next[idx] = updated
	slices.SortStableFunc(next, compare)

	if err := s.commit(next); err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("event edited", slog.String("id", id))

	return updated, nil
}

// Delete removes the event with id and returns it.
func (s *Store) Delete(role auth.Role, id string) (models.Event, error) {
	const op = "store.Delete"

	if !role.IsAdmin() {
		return models.Event{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Event{}, fmt.Errorf("%s: %s: %w", op, id, ErrNotFound)
	}

	removed := s.events[idx]
	next := slices.Delete(slices.Clone(s.events), idx, idx+1)

	if err := s.commit(next); err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	s.retired[id] = struct{}{}

	s.log.Info("event deleted", slog.String("id", id), slog.String("name", removed.Name))

	return removed, nil
}

// commit persists next and only then makes it the visible collection.
func (s *Store) commit(next []models.Event) error {
	if err := s.persist.Save(next); err != nil {
		s.log.Error("failed to persist events", sl.Err(err))
		return err
	}
	s.events = next
	return nil
}

func (s *Store) freshID() string {
	for {
		id := s.newID()
		if _, used := s.retired[id]; used {
			continue
		}
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.events, func(e models.Event) bool { return e.ID == id })
}

// List returns every event ordered by date, start and end.
func (s *Store) List() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.events)
}

// ListByDay returns the events on date (YYYY-MM-DD).
func (s *Store) ListByDay(date string) []models.Event {
	return s.filter(func(e models.Event) bool { return e.Date == date })
}

// Search matches query against name and type, case-insensitively.
func (s *Store) Search(query string) []models.Event {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return s.filter(func(e models.Event) bool {
		return strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Type), q)
	})
}

func (s *Store) filter(keep func(models.Event) bool) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Event
	for _, e := range s.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the event with exactly id.
func (s *Store) Get(id string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Event{}, ErrNotFound
	}
	return s.events[idx], nil
}

// Find resolves an operator reference: an exact id, or otherwise the single event
// whose id starts with ref (at least four characters) or whose name equals ref
// case-insensitively.
func (s *Store) Find(ref string) (models.Event, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Event{}, ErrNotFound
	}

	if e, err := s.Get(ref); err == nil {
		return e, nil
	}

	// A reference that is both an id prefix and a name is ambiguous unless both
	// resolve to the same event.
	matches := s.filter(func(e models.Event) bool {
		return (len(ref) >= minPrefix && strings.HasPrefix(e.ID, ref)) || strings.EqualFold(e.Name, ref)
	})
	switch len(matches) {
	case 0:
		return models.Event{}, fmt.Errorf("%q: %w", ref, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Event{}, fmt.Errorf("%q: %w", ref, ErrAmbiguous)
	}
}
