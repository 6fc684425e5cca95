package eventsource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/eventsource"
	"github.com/pflow-xyz/go-ledger/ledger"
)

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) eventsource.Store {
		return eventsource.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) eventsource.Store {
		store, err := eventsource.NewSQLiteStore(":memory:")
		if err != nil {
			t.Fatalf("failed to create sqlite store: %v", err)
		}
		return store
	})
}

func runStoreTests(t *testing.T, newStore func(t *testing.T) eventsource.Store) {
	t.Run("AppendAndRead", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		mint, _ := eventsource.NewEvent("ledger", "Mint", map[string]string{"amount": "100"})
		transfer, _ := eventsource.NewEvent("ledger", "Transfer", map[string]string{"amount": "40"})

		version, err := store.Append(ctx, "ledger", -1, []*eventsource.Event{mint})
		if err != nil {
			t.Fatalf("append to new stream: %v", err)
		}
		if version != 0 {
			t.Errorf("version = %d, want 0", version)
		}

		version, err = store.Append(ctx, "ledger", 0, []*eventsource.Event{transfer})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if version != 1 {
			t.Errorf("version = %d, want 1", version)
		}

		events, err := store.Read(ctx, "ledger", 0)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
		if events[0].Type != "Mint" || events[1].Type != "Transfer" {
			t.Errorf("event types = %s, %s", events[0].Type, events[1].Type)
		}

		var payload map[string]string
		if err := events[0].Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload["amount"] != "100" {
			t.Errorf("payload amount = %q, want 100", payload["amount"])
		}
	})

	t.Run("ConcurrencyConflict", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		first, _ := eventsource.NewEvent("ledger", "Mint", nil)
		second, _ := eventsource.NewEvent("ledger", "Burn", nil)

		if _, err := store.Append(ctx, "ledger", -1, []*eventsource.Event{first}); err != nil {
			t.Fatalf("append: %v", err)
		}

		// Stale expected version must be rejected.
		if _, err := store.Append(ctx, "ledger", 5, []*eventsource.Event{second}); !errors.Is(err, eventsource.ErrConcurrencyConflict) {
			t.Errorf("got %v, want ErrConcurrencyConflict", err)
		}

		if _, err := store.Append(ctx, "ledger", 0, []*eventsource.Event{second}); err != nil {
			t.Errorf("append with correct version: %v", err)
		}
	})

	t.Run("StreamVersion", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		version, err := store.StreamVersion(ctx, "ledger")
		if err != nil {
			t.Fatalf("stream version: %v", err)
		}
		if version != -1 {
			t.Errorf("missing stream version = %d, want -1", version)
		}

		ev, _ := eventsource.NewEvent("ledger", "Mint", nil)
		if _, err := store.Append(ctx, "ledger", -1, []*eventsource.Event{ev}); err != nil {
			t.Fatalf("append: %v", err)
		}

		version, err = store.StreamVersion(ctx, "ledger")
		if err != nil {
			t.Fatalf("stream version: %v", err)
		}
		if version != 0 {
			t.Errorf("version = %d, want 0", version)
		}
	})

	t.Run("ReadFromVersion", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			ev, _ := eventsource.NewEvent("ledger", "Transfer", i)
			if _, err := store.Append(ctx, "ledger", i-1, []*eventsource.Event{ev}); err != nil {
				t.Fatalf("append %d: %v", i, err)
			}
		}

		events, err := store.Read(ctx, "ledger", 1)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
		if events[0].Version != 1 {
			t.Errorf("first version = %d, want 1", events[0].Version)
		}
	})

	t.Run("ReadAllWithFilter", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		mint, _ := eventsource.NewEvent("ledger", "Mint", nil)
		transfer, _ := eventsource.NewEvent("ledger", "Transfer", nil)
		other, _ := eventsource.NewEvent("audit", "Mint", nil)

		if _, err := store.Append(ctx, "ledger", -1, []*eventsource.Event{mint, transfer}); err != nil {
			t.Fatalf("append: %v", err)
		}
		if _, err := store.Append(ctx, "audit", -1, []*eventsource.Event{other}); err != nil {
			t.Fatalf("append: %v", err)
		}

		events, err := store.ReadAll(ctx, eventsource.Filter{Types: []string{"Mint"}})
		if err != nil {
			t.Fatalf("read all: %v", err)
		}
		if len(events) != 2 {
			t.Errorf("got %d Mint events, want 2", len(events))
		}

		events, err = store.ReadAll(ctx, eventsource.Filter{StreamID: "ledger"})
		if err != nil {
			t.Fatalf("read all: %v", err)
		}
		if len(events) != 2 {
			t.Errorf("got %d ledger events, want 2", len(events))
		}
	})

	t.Run("DeleteStream", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()
		ctx := context.Background()

		ev, _ := eventsource.NewEvent("ledger", "Mint", nil)
		if _, err := store.Append(ctx, "ledger", -1, []*eventsource.Event{ev}); err != nil {
			t.Fatalf("append: %v", err)
		}

		if err := store.DeleteStream(ctx, "ledger"); err != nil {
			t.Fatalf("delete stream: %v", err)
		}

		version, err := store.StreamVersion(ctx, "ledger")
		if err != nil {
			t.Fatalf("stream version: %v", err)
		}
		if version != -1 {
			t.Errorf("version after delete = %d, want -1", version)
		}
	})
}

func TestRecorder(t *testing.T) {
	addr := func(n byte) ledger.Address {
		var a ledger.Address
		a[19] = n
		return a
	}
	admin, minter, burner, upgrader := addr(1), addr(2), addr(3), addr(4)
	holder := addr(10)

	store := eventsource.NewMemoryStore()
	recorder, err := eventsource.NewRecorder(store, "ledger")
	if err != nil {
		t.Fatal(err)
	}

	l, err := ledger.New(ledger.Init{
		Admin:    admin,
		Minter:   minter,
		Burner:   burner,
		Upgrader: upgrader,
		Name:     "Test Token",
		Symbol:   "TST",
	}, ledger.WithEventSink(recorder))
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Mint(holder, uint256.NewInt(100), minter); err != nil {
		t.Fatal(err)
	}
	if err := l.Transfer(holder, admin, uint256.NewInt(40)); err != nil {
		t.Fatal(err)
	}
	if err := recorder.Err(); err != nil {
		t.Fatalf("recorder error: %v", err)
	}

	events, err := store.Read(context.Background(), "ledger", 0)
	if err != nil {
		t.Fatal(err)
	}
	// 4 role grants at construction, then Mint and Transfer.
	want := []string{"RoleGranted", "RoleGranted", "RoleGranted", "RoleGranted", "Mint", "Transfer"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev.Type != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, ev.Type, want[i])
		}
		if ev.Version != i {
			t.Errorf("event[%d] version = %d, want %d", i, ev.Version, i)
		}
	}

	t.Run("ResumesFromStreamVersion", func(t *testing.T) {
		resumed, err := eventsource.NewRecorder(store, "ledger")
		if err != nil {
			t.Fatal(err)
		}
		resumed.Record(ledger.Event{Kind: ledger.EventBurn, Payload: ledger.BurnPayload{Amount: "1"}})
		if err := resumed.Err(); err != nil {
			t.Fatalf("resumed recorder: %v", err)
		}

		version, err := store.StreamVersion(context.Background(), "ledger")
		if err != nil {
			t.Fatal(err)
		}
		if version != len(want) {
			t.Errorf("stream version = %d, want %d", version, len(want))
		}
	})
}
