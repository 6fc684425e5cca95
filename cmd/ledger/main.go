package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "init":
		if err := initCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "info":
		if err := info(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "balance":
		if err := balance(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mint":
		if err := mint(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "burn":
		if err := burn(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "transfer":
		if err := transfer(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "approve":
		if err := approve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "transfer-from":
		if err := transferFrom(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "grant":
		if err := grant(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "revoke":
		if err := revoke(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "blacklist":
		if err := blacklist(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "set-fee":
		if err := setFee(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "set-cap":
		if err := setCap(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "upgrade":
		if err := upgrade(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "events":
		if err := events(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("ledger version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ledger - role-gated fungible-token ledger

Usage: ledger <command> [options]

Commands:
  init           Create a new ledger database
  info           Show ledger metadata, supply and roles
  balance        Show the balance of an account
  mint           Mint tokens to an account (MINTER)
  burn           Burn tokens from an account (BURNER)
  transfer       Direct transfer (fee-bearing)
  approve        Set a spender allowance
  transfer-from  Delegated transfer against an allowance (fee-free)
  grant          Grant a role to an account (ADMIN)
  revoke         Revoke a role from an account (ADMIN)
  blacklist      Add/remove an account on the blacklist (ADMIN)
  set-fee        Set the send fee in basis points (ADMIN)
  set-cap        Set the max total supply (ADMIN)
  upgrade        Check upgrade authorization (UPGRADER)
  events         Show the emitted event log
  version        Show version
  help           Show this help

Run 'ledger <command> --help' for command options.`)
}
