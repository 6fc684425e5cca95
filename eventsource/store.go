package eventsource

import (
	"context"
	"errors"
	"sync"
)

// ErrConcurrencyConflict is returned by Append when the expected version does
// not match the current stream version.
var ErrConcurrencyConflict = errors.New("eventsource: concurrency conflict")

// Filter narrows a ReadAll query. Zero-valued fields match everything.
type Filter struct {
	// StreamID restricts results to a single stream.
	StreamID string

	// Types restricts results to the listed event types.
	Types []string
}

// Store is an append-only, versioned event log.
type Store interface {
	// Append adds events to a stream. expectedVersion must equal the current
	// stream version (-1 for a new stream) or ErrConcurrencyConflict is
	// returned. Returns the stream version after the append.
	Append(ctx context.Context, streamID string, expectedVersion int, events []*Event) (int, error)

	// Read returns the events of a stream starting at fromVersion, in order.
	Read(ctx context.Context, streamID string, fromVersion int) ([]*Event, error)

	// ReadAll returns events across streams matching the filter, in global
	// append order.
	ReadAll(ctx context.Context, filter Filter) ([]*Event, error)

	// StreamVersion returns the version of the last event in the stream, or
	// -1 if the stream does not exist.
	StreamVersion(ctx context.Context, streamID string) (int, error)

	// DeleteStream removes a stream and its events.
	DeleteStream(ctx context.Context, streamID string) error

	// Close releases store resources.
	Close() error
}

// MemoryStore is an in-memory Store for tests and ephemeral ledgers.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]*Event
	order   []*Event
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[string][]*Event)}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, streamID string, expectedVersion int, events []*Event) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[streamID]
	current := len(stream) - 1
	if expectedVersion != current {
		return 0, ErrConcurrencyConflict
	}

	for _, ev := range events {
		current++
		ev.StreamID = streamID
		ev.Version = current
		stream = append(stream, ev)
		s.order = append(s.order, ev)
	}
	s.streams[streamID] = stream
	return current, nil
}

// Read implements Store.
func (s *MemoryStore) Read(ctx context.Context, streamID string, fromVersion int) ([]*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	var out []*Event
	for _, ev := range stream {
		if ev.Version >= fromVersion {
			out = append(out, ev)
		}
	}
	return out, nil
}

// ReadAll implements Store.
func (s *MemoryStore) ReadAll(ctx context.Context, filter Filter) ([]*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, ev := range s.order {
		if matches(ev, filter) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// StreamVersion implements Store.
func (s *MemoryStore) StreamVersion(ctx context.Context, streamID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.streams[streamID]) - 1, nil
}

// DeleteStream implements Store.
func (s *MemoryStore) DeleteStream(ctx context.Context, streamID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.streams, streamID)
	kept := s.order[:0]
	for _, ev := range s.order {
		if ev.StreamID != streamID {
			kept = append(kept, ev)
		}
	}
	s.order = kept
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

func matches(ev *Event, filter Filter) bool {
	if filter.StreamID != "" && ev.StreamID != filter.StreamID {
		return false
	}
	if len(filter.Types) > 0 {
		found := false
		for _, t := range filter.Types {
			if ev.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
