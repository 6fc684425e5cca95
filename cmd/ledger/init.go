package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/eventsource"
	"github.com/pflow-xyz/go-ledger/ledger"
	"github.com/pflow-xyz/go-ledger/statestore"
)

func initCmd(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Ledger database file")
	name := fs.String("name", "", "Token name")
	symbol := fs.String("symbol", "", "Token symbol")
	admin := fs.String("admin", "", "ADMIN account address (required)")
	minter := fs.String("minter", "", "MINTER account address (required)")
	burner := fs.String("burner", "", "BURNER account address (required)")
	upgrader := fs.String("upgrader", "", "UPGRADER account address (required)")
	maxSupply := fs.String("max-supply", "0", "Max total supply (0 = uncapped)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ledger init [options]

Create a new ledger database with the four role holders.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Capped token with distinct role holders
  ledger init --db token.db --name "Example" --symbol EXM \
    --admin 0x01..01 --minter 0x02..02 --burner 0x03..03 --upgrader 0x04..04 \
    --max-supply 1000000

  # Uncapped
  ledger init --db token.db --admin 0x01..01 --minter 0x02..02 \
    --burner 0x03..03 --upgrader 0x04..04
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		initParams ledger.Init
		err        error
	)
	if initParams.Admin, err = parseAddr("admin", *admin); err != nil {
		return err
	}
	if initParams.Minter, err = parseAddr("minter", *minter); err != nil {
		return err
	}
	if initParams.Burner, err = parseAddr("burner", *burner); err != nil {
		return err
	}
	if initParams.Upgrader, err = parseAddr("upgrader", *upgrader); err != nil {
		return err
	}
	initParams.Name = *name
	initParams.Symbol = *symbol
	if initParams.MaxSupply, err = uint256.FromDecimal(*maxSupply); err != nil {
		return fmt.Errorf("--max-supply: %w", err)
	}

	state, err := statestore.Open(*dbPath)
	if err != nil {
		return err
	}
	defer state.Close()

	exists, err := state.Exists()
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("ledger already initialized at %s", *dbPath)
	}

	events, err := eventsource.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer events.Close()

	recorder, err := eventsource.NewRecorder(events, eventStream)
	if err != nil {
		return err
	}

	l, err := ledger.New(initParams, ledger.WithEventSink(recorder))
	if err != nil {
		return err
	}
	if err := state.Save(l.Snapshot()); err != nil {
		return err
	}
	if err := recorder.Err(); err != nil {
		return fmt.Errorf("event log: %w", err)
	}

	fmt.Printf("Initialized ledger at %s\n", *dbPath)
	return nil
}
