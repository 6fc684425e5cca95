package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func upgrade(args []string) error {
	fs := flag.NewFlagSet("upgrade", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	impl := fs.String("impl", "", "New implementation reference (required)")
	caller := fs.String("caller", "", "Acting account; must hold UPGRADER (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger upgrade [options]

Check whether the caller is authorized to swap the active implementation.
The swap itself is performed by the hosting environment; this only runs the
authorization predicate.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger upgrade --db token.db --impl sha256:9f2c... --caller 0x04..04
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *impl == "" {
		fs.Usage()
		return fmt.Errorf("--impl is required")
	}
	callerAddr, err := parseAddr("caller", *caller)
	if err != nil {
		return err
	}

	s, err := openSession(*dbPath)
	if err != nil {
		return err
	}
	defer s.close()

	gate := ledger.NewUpgradeGate(s.ledger)
	if err := gate.AuthorizeUpgrade(*impl, callerAddr); err != nil {
		return err
	}
	if err := s.recorder.Err(); err != nil {
		return fmt.Errorf("event log: %w", err)
	}

	fmt.Printf("Upgrade to %s authorized for %s\n", *impl, callerAddr)
	return nil
}
