package main

import (
	"flag"
	"fmt"
	"os"
)

func transfer(args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	from := fs.String("from", "", "Sender account (required)")
	to := fs.String("to", "", "Recipient account (required)")
	amount := fs.String("amount", "", "Amount to send (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger transfer [options]

Direct transfer. The send fee is burned from the sender; the recipient
receives amount minus fee.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger transfer --db token.db --from 0x05..05 --to 0x06..06 --amount 100
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	fromAddr, err := parseAddr("from", *from)
	if err != nil {
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

	s, err := openSession(*dbPath)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.ledger.Transfer(fromAddr, toAddr, amt); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	fmt.Printf("Transferred %s from %s to %s (recipient balance %s)\n",
		amt.Dec(), fromAddr, toAddr, s.ledger.BalanceOf(toAddr).Dec())
	return nil
}

func approve(args []string) error {
	fs := flag.NewFlagSet("approve", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	owner := fs.String("owner", "", "Balance owner (required)")
	spender := fs.String("spender", "", "Approved spender (required)")
	amount := fs.String("amount", "", "Allowance amount (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger approve [options]

Set the amount a spender may move on the owner's behalf with transfer-from.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	ownerAddr, err := parseAddr("owner", *owner)
	if err != nil {
		return err
	}
	spenderAddr, err := parseAddr("spender", *spender)
	if err != nil {
		return err
	}
	amt, err := parseAmount("amount", *amount)
	if err != nil {
		return err
	}

	s, err := openSession(*dbPath)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.ledger.Approve(ownerAddr, spenderAddr, amt); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	fmt.Printf("Approved %s for %s on behalf of %s\n", amt.Dec(), spenderAddr, ownerAddr)
	return nil
}

func transferFrom(args []string) error {
	fs := flag.NewFlagSet("transfer-from", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	spender := fs.String("spender", "", "Acting spender (required)")
	from := fs.String("from", "", "Balance owner (required)")
	to := fs.String("to", "", "Recipient account (required)")
	amount := fs.String("amount", "", "Amount to send (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger transfer-from [options]

Delegated transfer against a prior approval. No fee is deducted; the
allowance shrinks by the amount sent.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	spenderAddr, err := parseAddr("spender", *spender)
	if err != nil {
		return err
	}
	fromAddr, err := parseAddr("from", *from)
	if err != nil {
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

	s, err := openSession(*dbPath)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.ledger.TransferFrom(spenderAddr, fromAddr, toAddr, amt); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	fmt.Printf("Transferred %s from %s to %s via %s\n", amt.Dec(), fromAddr, toAddr, spenderAddr)
	return nil
}
