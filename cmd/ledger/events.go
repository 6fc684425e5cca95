package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/eventlog"
	"github.com/pflow-xyz/go-ledger/eventsource"
)

func events(args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	typeFilter := fs.String("type", "", "Filter by event kind")
	format := fs.String("format", "log", "Output format: log, jsonl, csv, summary")
	outPath := fs.String("out", "", "Write output to file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger events [options]

Show or export the emitted event log in append order.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Show all events
  ledger events --db token.db

  # Only transfers
  ledger events --db token.db --type Transfer

  # Export the full log for audit tooling
  ledger events --db token.db --format jsonl --out audit.jsonl
  ledger events --db token.db --format csv --out audit.csv

  # Per-kind counts and time range
  ledger events --db token.db --format summary
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := eventsource.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	filter := eventsource.Filter{StreamID: eventStream}
	if *typeFilter != "" {
		filter.Types = []string{*typeFilter}
	}

	list, err := store.ReadAll(context.Background(), filter)
	if err != nil {
		return err
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "log":
		for _, ev := range list {
			fmt.Fprintf(out, "%4d  %-24s %-18s %s\n",
				ev.Version, ev.Timestamp.Format("2006-01-02T15:04:05Z"), ev.Type, string(ev.Data))
		}
		fmt.Fprintf(out, "%d events\n", len(list))
		return nil
	case "jsonl":
		return eventlog.WriteJSONL(out, list)
	case "csv":
		return eventlog.WriteCSV(out, list)
	case "summary":
		eventlog.Summarize(list).Print(out)
		return nil
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}
