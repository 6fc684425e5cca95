package main

import (
	"flag"
	"fmt"
	"os"
)

func burn(args []string) error {
	fs := flag.NewFlagSet("burn", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	from := fs.String("from", "", "Account to burn from (required)")
	amount := fs.String("amount", "", "Amount to burn (required)")
	caller := fs.String("caller", "", "Acting account; must hold BURNER (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger burn [options]

Destroy tokens held by an account. The caller must hold BURNER.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger burn --db token.db --from 0x05..05 --amount 250 --caller 0x03..03
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	fromAddr, err := parseAddr("from", *from)
	if err != nil {
		return err
	}
	amt, err := parseAmount("amount", *amount)
	if err != nil {
		return err
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

	if err := s.ledger.Burn(fromAddr, amt, callerAddr); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	fmt.Printf("Burned %s from %s (total supply %s)\n", amt.Dec(), fromAddr, s.ledger.TotalSupply().Dec())
	return nil
}
