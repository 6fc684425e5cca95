package main

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/eventsource"
	"github.com/pflow-xyz/go-ledger/ledger"
	"github.com/pflow-xyz/go-ledger/statestore"
)

// eventStream is the stream all ledger events are appended to. One database
// file holds both the state tables and the event log.
const eventStream = "ledger"

// session bundles the open stores and the restored ledger for one command.
type session struct {
	state    *statestore.Store
	events   *eventsource.SQLiteStore
	recorder *eventsource.Recorder
	ledger   *ledger.Ledger
}

// openSession restores the ledger from dbPath, wiring emitted events into
// the database's event log.
func openSession(dbPath string) (*session, error) {
	state, err := statestore.Open(dbPath)
	if err != nil {
		return nil, err
	}

	ok, err := state.Exists()
	if err != nil {
		state.Close()
		return nil, err
	}
	if !ok {
		state.Close()
		return nil, fmt.Errorf("no ledger at %s (run 'ledger init' first)", dbPath)
	}

	snap, err := state.Load()
	if err != nil {
		state.Close()
		return nil, err
	}

	events, err := eventsource.NewSQLiteStore(dbPath)
	if err != nil {
		state.Close()
		return nil, err
	}

	recorder, err := eventsource.NewRecorder(events, eventStream)
	if err != nil {
		state.Close()
		events.Close()
		return nil, err
	}

	l, err := ledger.Restore(snap, ledger.WithEventSink(recorder))
	if err != nil {
		state.Close()
		events.Close()
		return nil, err
	}

	return &session{state: state, events: events, recorder: recorder, ledger: l}, nil
}

// commit persists the current ledger state and reports any event-log failure.
func (s *session) commit() error {
	if err := s.state.Save(s.ledger.Snapshot()); err != nil {
		return err
	}
	if err := s.recorder.Err(); err != nil {
		return fmt.Errorf("event log: %w", err)
	}
	return nil
}

func (s *session) close() {
	s.state.Close()
	s.events.Close()
}

func parseAddr(flagName, value string) (ledger.Address, error) {
	if value == "" {
		return ledger.ZeroAddress, fmt.Errorf("--%s is required", flagName)
	}
	addr, err := ledger.ParseAddress(value)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	return addr, nil
}

func parseAmount(flagName, value string) (*uint256.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("--%s is required", flagName)
	}
	amount, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flagName, err)
	}
	return amount, nil
}
