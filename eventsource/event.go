// Package eventsource provides append-only storage for the event records the
// ledger emits. Streams are ordered and versioned; appends use optimistic
// concurrency so competing writers cannot interleave silently.
package eventsource

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a single stored record. Data holds the JSON-encoded payload of
// the ledger event; Version is the zero-based position within the stream.
type Event struct {
	ID        string          `json:"id"`
	StreamID  string          `json:"streamId"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Version   int             `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent creates an event with a fresh ID and the payload JSON-encoded.
// Version is assigned by the store on append.
func NewEvent(streamID, eventType string, payload any) (*Event, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode event payload: %w", err)
		}
		data = b
	}

	return &Event{
		ID:        uuid.New().String(),
		StreamID:  streamID,
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Decode unmarshals the event payload into v.
func (e *Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}
