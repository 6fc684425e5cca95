// Package statestore persists ledger snapshots in SQLite, in the externally
// inspectable layout: role membership and role-admin tables, a balance table,
// a blacklist table, an allowance table and scalar metadata. Amounts are
// stored as decimal strings so external tooling reads them without 256-bit
// integer support.
package statestore

import (
	"database/sql"
	"fmt"

	"github.com/holiman/uint256"
	_ "modernc.org/sqlite"

	"github.com/pflow-xyz/go-ledger/ledger"
)

// Metadata keys in the metadata table.
const (
	metaName           = "name"
	metaSymbol         = "symbol"
	metaTotalSupply    = "total_supply"
	metaMaxTotalSupply = "max_total_supply"
	metaFeeRateBps     = "fee_rate_bps"
)

// Store handles SQLite persistence of ledger state.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a state store at path. Use ":memory:" for
// an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state store: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS roles (
		role TEXT NOT NULL,
		account TEXT NOT NULL,
		PRIMARY KEY (role, account)
	);

	CREATE TABLE IF NOT EXISTS role_admins (
		role TEXT PRIMARY KEY,
		admin_role TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS balances (
		account TEXT PRIMARY KEY,
		balance TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS blacklist (
		account TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS allowances (
		owner TEXT NOT NULL,
		spender TEXT NOT NULL,
		amount TEXT NOT NULL,
		PRIMARY KEY (owner, spender)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Exists reports whether a ledger has been saved to this store before.
func (s *Store) Exists() (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n); err != nil {
		return false, fmt.Errorf("probe state store: %w", err)
	}
	return n > 0, nil
}

// Save replaces the stored state with the snapshot, transactionally.
func (s *Store) Save(snap *ledger.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"metadata", "roles", "role_admins", "balances", "blacklist", "allowances"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	meta := map[string]string{
		metaName:           snap.Name,
		metaSymbol:         snap.Symbol,
		metaTotalSupply:    amountDec(snap.TotalSupply),
		metaMaxTotalSupply: amountDec(snap.MaxTotalSupply),
		metaFeeRateBps:     fmt.Sprintf("%d", snap.FeeRateBps),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO metadata (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("save metadata %s: %w", k, err)
		}
	}

	for role, members := range snap.Roles {
		for _, account := range members {
			if _, err := tx.Exec(`INSERT INTO roles (role, account) VALUES (?, ?)`,
				string(role), account.String()); err != nil {
				return fmt.Errorf("save role %s: %w", role, err)
			}
		}
	}
	for role, admin := range snap.RoleAdmins {
		if _, err := tx.Exec(`INSERT INTO role_admins (role, admin_role) VALUES (?, ?)`,
			string(role), string(admin)); err != nil {
			return fmt.Errorf("save role admin %s: %w", role, err)
		}
	}

	for account, balance := range snap.Balances {
		if _, err := tx.Exec(`INSERT INTO balances (account, balance) VALUES (?, ?)`,
			account.String(), balance.Dec()); err != nil {
			return fmt.Errorf("save balance %s: %w", account, err)
		}
	}

	for _, account := range snap.Blacklist {
		if _, err := tx.Exec(`INSERT INTO blacklist (account) VALUES (?)`, account.String()); err != nil {
			return fmt.Errorf("save blacklist %s: %w", account, err)
		}
	}

	for owner, byOwner := range snap.Allowances {
		for spender, amount := range byOwner {
			if _, err := tx.Exec(`INSERT INTO allowances (owner, spender, amount) VALUES (?, ?, ?)`,
				owner.String(), spender.String(), amount.Dec()); err != nil {
				return fmt.Errorf("save allowance %s/%s: %w", owner, spender, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load reads the stored state back into a snapshot.
func (s *Store) Load() (*ledger.Snapshot, error) {
	snap := &ledger.Snapshot{
		TotalSupply:    new(uint256.Int),
		MaxTotalSupply: new(uint256.Int),
		Roles:          make(map[ledger.Role][]ledger.Address),
		RoleAdmins:     make(map[ledger.Role]ledger.Role),
		Balances:       make(map[ledger.Address]*uint256.Int),
		Allowances:     make(map[ledger.Address]map[ledger.Address]*uint256.Int),
	}

	meta, err := s.loadMetadata()
	if err != nil {
		return nil, err
	}
	snap.Name = meta[metaName]
	snap.Symbol = meta[metaSymbol]
	if snap.TotalSupply, err = parseAmount(meta[metaTotalSupply]); err != nil {
		return nil, fmt.Errorf("load total supply: %w", err)
	}
	if snap.MaxTotalSupply, err = parseAmount(meta[metaMaxTotalSupply]); err != nil {
		return nil, fmt.Errorf("load max total supply: %w", err)
	}
	if _, err := fmt.Sscanf(orZero(meta[metaFeeRateBps]), "%d", &snap.FeeRateBps); err != nil {
		return nil, fmt.Errorf("load fee rate: %w", err)
	}

	if err := s.loadRoles(snap); err != nil {
		return nil, err
	}
	if err := s.loadBalances(snap); err != nil {
		return nil, err
	}
	if err := s.loadBlacklist(snap); err != nil {
		return nil, err
	}
	if err := s.loadAllowances(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Balance reads a single account balance without materializing the full
// snapshot. Missing accounts read as zero.
func (s *Store) Balance(account ledger.Address) (*uint256.Int, error) {
	var dec string
	err := s.db.QueryRow(`SELECT balance FROM balances WHERE account = ?`, account.String()).Scan(&dec)
	if err == sql.ErrNoRows {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load balance %s: %w", account, err)
	}
	return parseAmount(dec)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadMetadata() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM metadata`)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan metadata: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func (s *Store) loadRoles(snap *ledger.Snapshot) error {
	rows, err := s.db.Query(`SELECT role, account FROM roles`)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role, account string
		if err := rows.Scan(&role, &account); err != nil {
			return fmt.Errorf("scan role: %w", err)
		}
		addr, err := ledger.ParseAddress(account)
		if err != nil {
			return fmt.Errorf("load roles: %w", err)
		}
		snap.Roles[ledger.Role(role)] = append(snap.Roles[ledger.Role(role)], addr)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	admins, err := s.db.Query(`SELECT role, admin_role FROM role_admins`)
	if err != nil {
		return fmt.Errorf("load role admins: %w", err)
	}
	defer admins.Close()

	for admins.Next() {
		var role, admin string
		if err := admins.Scan(&role, &admin); err != nil {
			return fmt.Errorf("scan role admin: %w", err)
		}
		snap.RoleAdmins[ledger.Role(role)] = ledger.Role(admin)
	}
	return admins.Err()
}

func (s *Store) loadBalances(snap *ledger.Snapshot) error {
	rows, err := s.db.Query(`SELECT account, balance FROM balances`)
	if err != nil {
		return fmt.Errorf("load balances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var account, dec string
		if err := rows.Scan(&account, &dec); err != nil {
			return fmt.Errorf("scan balance: %w", err)
		}
		addr, err := ledger.ParseAddress(account)
		if err != nil {
			return fmt.Errorf("load balances: %w", err)
		}
		amount, err := parseAmount(dec)
		if err != nil {
			return fmt.Errorf("load balance %s: %w", account, err)
		}
		snap.Balances[addr] = amount
	}
	return rows.Err()
}

func (s *Store) loadBlacklist(snap *ledger.Snapshot) error {
	rows, err := s.db.Query(`SELECT account FROM blacklist`)
	if err != nil {
		return fmt.Errorf("load blacklist: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return fmt.Errorf("scan blacklist: %w", err)
		}
		addr, err := ledger.ParseAddress(account)
		if err != nil {
			return fmt.Errorf("load blacklist: %w", err)
		}
		snap.Blacklist = append(snap.Blacklist, addr)
	}
	return rows.Err()
}

func (s *Store) loadAllowances(snap *ledger.Snapshot) error {
	rows, err := s.db.Query(`SELECT owner, spender, amount FROM allowances`)
	if err != nil {
		return fmt.Errorf("load allowances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner, spender, dec string
		if err := rows.Scan(&owner, &spender, &dec); err != nil {
			return fmt.Errorf("scan allowance: %w", err)
		}
		ownerAddr, err := ledger.ParseAddress(owner)
		if err != nil {
			return fmt.Errorf("load allowances: %w", err)
		}
		spenderAddr, err := ledger.ParseAddress(spender)
		if err != nil {
			return fmt.Errorf("load allowances: %w", err)
		}
		amount, err := parseAmount(dec)
		if err != nil {
			return fmt.Errorf("load allowance %s/%s: %w", owner, spender, err)
		}
		byOwner := snap.Allowances[ownerAddr]
		if byOwner == nil {
			byOwner = make(map[ledger.Address]*uint256.Int)
			snap.Allowances[ownerAddr] = byOwner
		}
		byOwner[spenderAddr] = amount
	}
	return rows.Err()
}

func amountDec(x *uint256.Int) string {
	if x == nil {
		return "0"
	}
	return x.Dec()
}

func parseAmount(dec string) (*uint256.Int, error) {
	return uint256.FromDecimal(orZero(dec))
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
