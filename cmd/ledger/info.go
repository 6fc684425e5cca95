package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func info(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger info [options]

Show ledger metadata, supply figures, fee rate, blacklist and role holders.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession(*dbPath)
	if err != nil {
		return err
	}
	defer s.close()

	snap := s.ledger.Snapshot()

	fmt.Printf("Name:             %s\n", snap.Name)
	fmt.Printf("Symbol:           %s\n", snap.Symbol)
	fmt.Printf("Total supply:     %s\n", snap.TotalSupply.Dec())
	if snap.MaxTotalSupply.IsZero() {
		fmt.Printf("Max total supply: uncapped\n")
	} else {
		fmt.Printf("Max total supply: %s\n", snap.MaxTotalSupply.Dec())
	}
	fmt.Printf("Send fee:         %d bps\n", snap.FeeRateBps)
	fmt.Printf("Accounts:         %d\n", len(snap.Balances))
	fmt.Printf("Blacklisted:      %d\n", len(snap.Blacklist))

	fmt.Println("Roles:")
	for _, role := range ledger.Roles {
		for _, account := range snap.Roles[role] {
			fmt.Printf("  %-9s %s\n", role, account)
		}
	}
	return nil
}
