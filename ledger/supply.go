package ledger

import (
	"fmt"

	"github.com/holiman/uint256"
)

// SupplyLedger owns the balance mapping, the total-supply counter and the
// mutable supply cap. A cap of zero means uncapped; the sentinel is preserved
// exactly.
//
// All arithmetic is unsigned 256-bit with explicit overflow detection, never
// wraparound. SupplyLedger is not safe for concurrent use; the Ledger facade
// serializes access to it.
type SupplyLedger struct {
	roles *RoleRegistry

	balances       map[Address]*uint256.Int
	totalSupply    *uint256.Int
	maxTotalSupply *uint256.Int
}

func newSupplyLedger(roles *RoleRegistry, maxSupply *uint256.Int) *SupplyLedger {
	return &SupplyLedger{
		roles:          roles,
		balances:       make(map[Address]*uint256.Int),
		totalSupply:    new(uint256.Int),
		maxTotalSupply: cloneAmount(maxSupply),
	}
}

// BalanceOf returns the balance of account. Accounts are created implicitly
// on first credit; an untouched account has balance zero.
func (s *SupplyLedger) BalanceOf(account Address) *uint256.Int {
	return cloneAmount(s.balances[account])
}

// TotalSupply returns the sum of all balances.
func (s *SupplyLedger) TotalSupply() *uint256.Int {
	return cloneAmount(s.totalSupply)
}

// MaxTotalSupply returns the supply cap. Zero means uncapped.
func (s *SupplyLedger) MaxTotalSupply() *uint256.Int {
	return cloneAmount(s.maxTotalSupply)
}

// Mint credits amount to account and grows total supply. The caller must hold
// MINTER. Fails with ErrSupplyCapExceeded when a nonzero cap would be passed,
// with no mutation.
func (s *SupplyLedger) Mint(to Address, amount *uint256.Int, caller Address) error {
	if !s.roles.HasRole(RoleMinter, caller) {
		return fmt.Errorf("%w: %s does not hold %s", ErrUnauthorized, caller, RoleMinter)
	}

	newSupply := new(uint256.Int)
	if _, overflow := newSupply.AddOverflow(s.totalSupply, amount); overflow {
		return fmt.Errorf("mint: total supply: %w", ErrArithmeticOverflow)
	}
	if !s.maxTotalSupply.IsZero() && newSupply.Gt(s.maxTotalSupply) {
		return fmt.Errorf("%w: %s + %s > cap %s",
			ErrSupplyCapExceeded, s.totalSupply.Dec(), amount.Dec(), s.maxTotalSupply.Dec())
	}

	s.credit(to, amount)
	s.totalSupply = newSupply
	return nil
}

// Burn debits amount from account and shrinks total supply. The caller must
// hold BURNER.
func (s *SupplyLedger) Burn(from Address, amount *uint256.Int, caller Address) error {
	if !s.roles.HasRole(RoleBurner, caller) {
		return fmt.Errorf("%w: %s does not hold %s", ErrUnauthorized, caller, RoleBurner)
	}
	return s.burn(from, amount)
}

// SetMaxTotalSupply replaces the supply cap. The caller must hold ADMIN.
// The new cap must not fall below the circulating supply; note this means a
// nonzero supply can never return to the uncapped (zero) sentinel.
func (s *SupplyLedger) SetMaxTotalSupply(newCap *uint256.Int, caller Address) error {
	if !s.roles.HasRole(RoleAdmin, caller) {
		return fmt.Errorf("%w: %s does not hold %s", ErrUnauthorized, caller, RoleAdmin)
	}
	if newCap.Lt(s.totalSupply) {
		return fmt.Errorf("%w: cap %s < supply %s",
			ErrCapBelowCirculatingSupply, newCap.Dec(), s.totalSupply.Dec())
	}
	s.maxTotalSupply = cloneAmount(newCap)
	return nil
}

// burn is the role-unchecked burn primitive used by Burn and by the transfer
// fee path.
func (s *SupplyLedger) burn(from Address, amount *uint256.Int) error {
	if err := s.debit(from, amount); err != nil {
		return err
	}

	newSupply := new(uint256.Int)
	if _, underflow := newSupply.SubOverflow(s.totalSupply, amount); underflow {
		// Unreachable while the conservation invariant holds.
		return fmt.Errorf("burn: total supply: %w", ErrArithmeticOverflow)
	}
	s.totalSupply = newSupply
	return nil
}

// rawTransfer debits from and credits to without role or policy checks. The
// policy layer enforces transfer-level rules before delegating here.
func (s *SupplyLedger) rawTransfer(from, to Address, amount *uint256.Int) error {
	if err := s.debit(from, amount); err != nil {
		return err
	}
	s.credit(to, amount)
	return nil
}

func (s *SupplyLedger) debit(from Address, amount *uint256.Int) error {
	// Accounts without an entry hold zero; a zero debit from them succeeds.
	balance := s.balances[from]
	if balance == nil {
		balance = new(uint256.Int)
	}
	if balance.Lt(amount) {
		return fmt.Errorf("%w: account %s holds %s, needs %s",
			ErrInsufficientBalance, from, balance.Dec(), amount.Dec())
	}

	remaining := new(uint256.Int).Sub(balance, amount)
	if remaining.IsZero() {
		delete(s.balances, from)
	} else {
		s.balances[from] = remaining
	}
	return nil
}

func (s *SupplyLedger) credit(to Address, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	// A balance is bounded by total supply, which is overflow-checked before
	// any credit, so this addition cannot wrap.
	balance := s.balances[to]
	if balance == nil {
		balance = new(uint256.Int)
	}
	s.balances[to] = new(uint256.Int).Add(balance, amount)
}

// cloneAmount copies an amount, treating nil as zero. Internal state never
// aliases caller-held integers.
func cloneAmount(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(x)
}
