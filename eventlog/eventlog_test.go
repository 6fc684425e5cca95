package eventlog_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/pflow-xyz/go-ledger/eventlog"
	"github.com/pflow-xyz/go-ledger/eventsource"
)

func sampleEvents(t *testing.T) []*eventsource.Event {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	specs := []struct {
		eventType string
		payload   any
	}{
		{"Mint", map[string]string{"to": "0x0a", "amount": "100"}},
		{"Transfer", map[string]string{"from": "0x0a", "to": "0x0b", "amount": "40"}},
		{"Burn", map[string]string{"from": "0x0a", "amount": "10"}},
		{"Transfer", map[string]string{"from": "0x0b", "to": "0x0a", "amount": "5"}},
	}

	events := make([]*eventsource.Event, 0, len(specs))
	for i, spec := range specs {
		ev, err := eventsource.NewEvent("ledger", spec.eventType, spec.payload)
		if err != nil {
			t.Fatal(err)
		}
		ev.Version = i
		ev.Timestamp = base.Add(time.Duration(i) * time.Minute)
		events = append(events, ev)
	}
	return events
}

func TestJSONLRoundTrip(t *testing.T) {
	events := sampleEvents(t)

	var buf bytes.Buffer
	if err := eventlog.WriteJSONL(&buf, events); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != len(events) {
		t.Errorf("wrote %d lines, want %d", got, len(events))
	}

	records, err := eventlog.ReadJSONL(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != len(events) {
		t.Fatalf("got %d records, want %d", len(records), len(events))
	}
	for i, rec := range records {
		if rec.ID != events[i].ID {
			t.Errorf("record %d ID = %s, want %s", i, rec.ID, events[i].ID)
		}
		if rec.Type != events[i].Type {
			t.Errorf("record %d type = %s, want %s", i, rec.Type, events[i].Type)
		}
		if rec.Version != i {
			t.Errorf("record %d version = %d", i, rec.Version)
		}
		if !bytes.Equal(rec.Payload, events[i].Data) {
			t.Errorf("record %d payload = %s", i, rec.Payload)
		}
	}
}

func TestReadJSONLSkipsEmptyLines(t *testing.T) {
	input := `{"id":"a","stream":"ledger","version":0,"type":"Mint","timestamp":"2026-03-01T12:00:00Z"}

{"id":"b","stream":"ledger","version":1,"type":"Burn","timestamp":"2026-03-01T12:01:00Z"}
`
	records, err := eventlog.ReadJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestReadJSONLRejectsGarbage(t *testing.T) {
	if _, err := eventlog.ReadJSONL(strings.NewReader("not json\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteCSV(t *testing.T) {
	events := sampleEvents(t)

	var buf bytes.Buffer
	if err := eventlog.WriteCSV(&buf, events); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != len(events)+1 {
		t.Fatalf("got %d rows, want %d", len(rows), len(events)+1)
	}
	if rows[0][0] != "id" || rows[0][3] != "type" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][3] != "Mint" || rows[2][3] != "Transfer" {
		t.Errorf("type column = %s, %s", rows[1][3], rows[2][3])
	}
	if rows[1][2] != "0" {
		t.Errorf("version column = %s, want 0", rows[1][2])
	}
	if !strings.Contains(rows[1][5], `"amount":"100"`) {
		t.Errorf("payload column = %s", rows[1][5])
	}
}

func TestSummarize(t *testing.T) {
	events := sampleEvents(t)
	summary := eventlog.Summarize(events)

	if summary.Events != 4 {
		t.Errorf("events = %d, want 4", summary.Events)
	}
	if summary.ByType["Transfer"] != 2 || summary.ByType["Mint"] != 1 || summary.ByType["Burn"] != 1 {
		t.Errorf("by type = %v", summary.ByType)
	}
	if summary.Duration != 3*time.Minute {
		t.Errorf("duration = %v, want 3m", summary.Duration)
	}

	t.Run("Empty", func(t *testing.T) {
		summary := eventlog.Summarize(nil)
		if summary.Events != 0 || summary.Duration != 0 {
			t.Errorf("empty summary = %+v", summary)
		}
	})
}
