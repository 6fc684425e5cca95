package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func grant(args []string) error {
	return roleChange("grant", args)
}

func revoke(args []string) error {
	return roleChange("revoke", args)
}

func roleChange(verb string, args []string) error {
	fs := flag.NewFlagSet(verb, flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	roleName := fs.String("role", "", "Role: ADMIN, MINTER, BURNER or UPGRADER (required)")
	account := fs.String("account", "", "Target account (required)")
	caller := fs.String("caller", "", "Acting account; must hold the administrating role (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger %s [options]

%s a role. Only holders of the role's administrating role (ADMIN) may do this.

Options:
`, verb, verb)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  ledger %s --db token.db --role MINTER --account 0x07..07 --caller 0x01..01
`, verb)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *roleName == "" {
		fs.Usage()
		return fmt.Errorf("--role is required")
	}
	role := ledger.Role(*roleName)

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

	if verb == "grant" {
		err = s.ledger.GrantRole(role, accountAddr, callerAddr)
	} else {
		err = s.ledger.RevokeRole(role, accountAddr, callerAddr)
	}
	if err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	if verb == "grant" {
		fmt.Printf("Granted %s to %s\n", role, accountAddr)
	} else {
		fmt.Printf("Revoked %s from %s\n", role, accountAddr)
	}
	return nil
}
