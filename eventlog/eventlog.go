// Package eventlog exports the stored event stream as audit files.
// Supports JSONL (one JSON object per line) and CSV, the formats audit
// tooling commonly ingests, plus summary statistics over a stream.
package eventlog

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pflow-xyz/go-ledger/eventsource"
)

// Record is the exported form of a stored event.
type Record struct {
	ID        string          `json:"id"`
	Stream    string          `json:"stream"`
	Version   int             `json:"version"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func toRecord(ev *eventsource.Event) Record {
	return Record{
		ID:        ev.ID,
		Stream:    ev.StreamID,
		Version:   ev.Version,
		Type:      ev.Type,
		Timestamp: ev.Timestamp,
		Payload:   ev.Data,
	}
}

// WriteJSONL writes events to w as JSON Lines, one record per line, in the
// given order.
func WriteJSONL(w io.Writer, events []*eventsource.Event) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, ev := range events {
		if err := enc.Encode(toRecord(ev)); err != nil {
			return fmt.Errorf("encoding event %s: %w", ev.ID, err)
		}
	}
	return bw.Flush()
}

// ReadJSONL parses records previously written by WriteJSONL. Empty lines are
// skipped.
func ReadJSONL(r io.Reader) ([]Record, error) {
	var out []Record
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return out, nil
}

// csvHeader is the column order used by WriteCSV.
var csvHeader = []string{"id", "stream", "version", "type", "timestamp", "payload"}

// WriteCSV writes events to w as CSV with a header row. The payload column
// holds the JSON-encoded payload verbatim.
func WriteCSV(w io.Writer, events []*eventsource.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, ev := range events {
		row := []string{
			ev.ID,
			ev.StreamID,
			strconv.Itoa(ev.Version),
			ev.Type,
			ev.Timestamp.Format(time.RFC3339Nano),
			string(ev.Data),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing event %s: %w", ev.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary provides basic statistics about an event stream.
type Summary struct {
	Events    int
	ByType    map[string]int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Summarize computes summary statistics over the given events.
func Summarize(events []*eventsource.Event) Summary {
	summary := Summary{
		Events: len(events),
		ByType: make(map[string]int),
	}
	if len(events) == 0 {
		return summary
	}

	first := true
	for _, ev := range events {
		summary.ByType[ev.Type]++
		if first {
			summary.StartTime = ev.Timestamp
			summary.EndTime = ev.Timestamp
			first = false
			continue
		}
		if ev.Timestamp.Before(summary.StartTime) {
			summary.StartTime = ev.Timestamp
		}
		if ev.Timestamp.After(summary.EndTime) {
			summary.EndTime = ev.Timestamp
		}
	}
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
	return summary
}

// Print writes a human-readable summary to w.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Event Log Summary ===")
	fmt.Fprintf(w, "Events: %d\n", s.Events)

	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %-20s %d\n", t, s.ByType[t])
	}

	if s.Events > 0 {
		fmt.Fprintf(w, "Time range: %s to %s\n",
			s.StartTime.Format("2006-01-02 15:04:05"),
			s.EndTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Duration: %v\n", s.Duration)
	}
}
