// memory based implementation for testing purposes
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/server/storage"
)

// Store implements storage.Storage using an in-memory map. Events handed in
// and out are copies, so callers never share exception lists with the store.
type Store struct {
	mu     sync.RWMutex
	events map[string]calendar.Event
	order  []string
	newID  func() string
}

var _ storage.Storage = (*Store)(nil)

// New creates a new in-memory storage
func New() *Store {
	return &Store{
		events: make(map[string]calendar.Event),
		newID:  uuid.NewString,
	}
}

// Seed stores events with their IDs as given, assigning one where missing.
// It is meant for fixtures loaded at startup.
func (s *Store) Seed(events ...calendar.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = s.newID()
		}
		if _, exists := s.events[ev.ID]; exists {
			return fmt.Errorf("seed event %q: %w", ev.ID, storage.ErrConflict)
		}
		s.events[ev.ID] = normalize(ev)
		s.order = append(s.order, ev.ID)
	}
	return nil
}

// normalize copies ev and replaces a nil exception list with an empty one,
// so JSON output always carries an array.
func normalize(ev calendar.Event) calendar.Event {
	out := ev.Clone()
	if out.ExceptionList == nil {
		out.ExceptionList = []string{}
	}
	return out
}

func (s *Store) ListEvents(_ context.Context) ([]calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]calendar.Event, 0, len(s.order))
	for _, id := range s.order {
		events = append(events, normalize(s.events[id]))
	}
	return events, nil
}

func (s *Store) GetEvent(_ context.Context, id string) (calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return calendar.Event{}, fmt.Errorf("event %q: %w", id, storage.ErrNotFound)
	}
	return normalize(ev), nil
}

func (s *Store) CreateEvent(_ context.Context, ev calendar.Event) (calendar.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = s.newID()
	if _, exists := s.events[ev.ID]; exists {
		return calendar.Event{}, fmt.Errorf("event %q: %w", ev.ID, storage.ErrConflict)
	}
	stored := normalize(ev)
	s.events[ev.ID] = stored
	s.order = append(s.order, ev.ID)
	return normalize(stored), nil
}

func (s *Store) UpdateEvent(_ context.Context, ev calendar.Event, ifMatch string) (calendar.Event, error) {
	if ev.ID == "" {
		return calendar.Event{}, fmt.Errorf("update without id: %w", storage.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.events[ev.ID]
	if !exists {
		return calendar.Event{}, fmt.Errorf("event %q: %w", ev.ID, storage.ErrNotFound)
	}
	if !storage.Matches(ifMatch, current) {
		return calendar.Event{}, fmt.Errorf("event %q revision %s: %w", ev.ID, ifMatch, storage.ErrPreconditionFailed)
	}
	stored := normalize(ev)
	s.events[ev.ID] = stored
	return normalize(stored), nil
}

func (s *Store) DeleteEvent(_ context.Context, id, ifMatch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.events[id]
	if !exists {
		return fmt.Errorf("event %q: %w", id, storage.ErrNotFound)
	}
	if !storage.Matches(ifMatch, current) {
		return fmt.Errorf("event %q revision %s: %w", id, ifMatch, storage.ErrPreconditionFailed)
	}
	delete(s.events, id)
	s.order = slices.DeleteFunc(s.order, func(other string) bool { return other == id })
	return nil
}

func (s *Store) AddException(_ context.Context, id, date string) (calendar.Event, error) {
	if _, err := calendar.ParseDate(date); err != nil {
		return calendar.Event{}, fmt.Errorf("exception date: %w: %w", storage.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, exists := s.events[id]
	if !exists {
		return calendar.Event{}, fmt.Errorf("event %q: %w", id, storage.ErrNotFound)
	}
	updated := normalize(ev.WithException(date))
	s.events[id] = updated
	return normalize(updated), nil
}
