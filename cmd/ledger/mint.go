package main

import (
	"flag"
	"fmt"
	"os"
)

func mint(args []string) error {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	to := fs.String("to", "", "Recipient account (required)")
	amount := fs.String("amount", "", "Amount to mint (required)")
	caller := fs.String("caller", "", "Acting account; must hold MINTER (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger mint [options]

Mint new tokens to an account. The caller must hold MINTER and the resulting
supply must stay within a nonzero cap.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger mint --db token.db --to 0x05..05 --amount 1000 --caller 0x02..02
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	toAddr, err := parseAddr("to", *to)
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

	if err := s.ledger.Mint(toAddr, amt, callerAddr); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	fmt.Printf("Minted %s to %s (total supply %s)\n", amt.Dec(), toAddr, s.ledger.TotalSupply().Dec())
	return nil
}
