package eventsource

import (
	"context"
	"sync"

	"github.com/pflow-xyz/go-ledger/ledger"
)

// Recorder adapts a Store to the ledger's EventSink: each emitted ledger
// event becomes one stored event on a fixed stream.
//
// The ledger cannot roll back a committed mutation when a sink fails, so
// Record is best-effort; the first storage failure is retained and exposed
// through Err.
type Recorder struct {
	store  Store
	stream string

	mu      sync.Mutex
	version int
	err     error
}

// NewRecorder creates a recorder appending to stream. It resumes from the
// stream's current version.
func NewRecorder(store Store, stream string) (*Recorder, error) {
	version, err := store.StreamVersion(context.Background(), stream)
	if err != nil {
		return nil, err
	}
	return &Recorder{store: store, stream: stream, version: version}, nil
}

// Record implements ledger.EventSink.
func (r *Recorder) Record(ev ledger.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}

	stored, err := NewEvent(r.stream, string(ev.Kind), ev.Payload)
	if err != nil {
		r.err = err
		return
	}

	version, err := r.store.Append(context.Background(), r.stream, r.version, []*Event{stored})
	if err != nil {
		r.err = err
		return
	}
	r.version = version
}

// Err returns the first storage failure encountered, if any. After a failure
// the recorder drops further events rather than writing them out of order.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

var _ ledger.EventSink = (*Recorder)(nil)
