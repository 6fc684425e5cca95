package main

import (
	"flag"
	"fmt"
	"os"
)

func balance(args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger balance [options] <address>

Show the balance of an account.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger balance --db token.db 0x0101010101010101010101010101010101010101
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("account address required")
	}

	account, err := parseAddr("address", fs.Arg(0))
	if err != nil {
		return err
	}

	s, err := openSession(*dbPath)
	if err != nil {
		return err
	}
	defer s.close()

	fmt.Println(s.ledger.BalanceOf(account).Dec())
	return nil
}
