package main

import (
	"flag"
	"fmt"
	"os"
)

func blacklist(args []string) error {
	fs := flag.NewFlagSet("blacklist", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	account := fs.String("account", "", "Target account (required)")
	status := fs.Bool("status", true, "true to blacklist, false to clear")
	caller := fs.String("caller", "", "Acting account; must hold ADMIN (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger blacklist [options]

Set an account's blacklist status. Blacklisted accounts can neither send nor
receive value on either transfer path.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger blacklist --db token.db --account 0x08..08 --caller 0x01..01
  ledger blacklist --db token.db --account 0x08..08 --status=false --caller 0x01..01
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	accountAddr, err := parseAddr("account", *account)
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

	if err := s.ledger.SetBlacklist(accountAddr, *status, callerAddr); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	if *status {
		fmt.Printf("Blacklisted %s\n", accountAddr)
	} else {
		fmt.Printf("Removed %s from blacklist\n", accountAddr)
	}
	return nil
}

func setFee(args []string) error {
	fs := flag.NewFlagSet("set-fee", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	rate := fs.Uint64("rate", 0, "Fee rate in basis points, 0-10000")
	caller := fs.String("caller", "", "Acting account; must hold ADMIN (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger set-fee [options]

Set the fee applied to direct transfers, in basis points (10000 = 100%%).
Delegated transfers are never taxed.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # 10%% send fee
  ledger set-fee --db token.db --rate 1000 --caller 0x01..01
`)
	}

	if err := fs.Parse(args); err != nil {
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

	if err := s.ledger.SetSendFee(*rate, callerAddr); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	fmt.Printf("Send fee set to %d bps\n", *rate)
	return nil
}

func setCap(args []string) error {
	fs := flag.NewFlagSet("set-cap", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	cap := fs.String("cap", "", "New max total supply (required)")
	caller := fs.String("caller", "", "Acting account; must hold ADMIN (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger set-cap [options]

Set the max total supply. The new cap must not fall below the circulating
supply.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger set-cap --db token.db --cap 2000000 --caller 0x01..01
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	newCap, err := parseAmount("cap", *cap)
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

	if err := s.ledger.SetMaxTotalSupply(newCap, callerAddr); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	fmt.Printf("Max total supply set to %s\n", newCap.Dec())
	return nil
}
