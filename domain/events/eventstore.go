package events

import (
	"fmt"
	"sync"
)

// EventStore is the interface for storing and retrieving events.
type EventStore interface {
	Append(event Event) error
	LoadEvents(tableID string) ([]Event, error)
}

// InMemoryEventStore is an in-memory implementation of the EventStore interface.
type InMemoryEventStore struct {
	events map[string][]Event
	mutex  sync.RWMutex
}

// NewInMemoryEventStore creates a new in-memory event store.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events: make(map[string][]Event),
	}
}

// Append adds a new event to the store, keyed by its TableID field.
func (s *InMemoryEventStore) Append(event Event) error {
	tableID := ExtractTableID(event)
	if tableID == "" {
		return fmt.Errorf("event %s has no tableID", event.Name())
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.events[tableID] = append(s.events[tableID], event)
	return nil
}

// Handler adapts the store to an EventHandler. Events without a table are dropped.
func (s *InMemoryEventStore) Handler() EventHandler {
	return func(event Event) {
		_ = s.Append(event)
	}
}

// LoadEvents retrieves all events for the given tableID.
func (s *InMemoryEventStore) LoadEvents(tableID string) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.events[tableID]
	result := make([]Event, len(events))
	copy(result, events)
	return result, nil
}
