// Package ledger implements a role-gated fungible-token ledger: per-account
// balances under a global supply cap, an optional proportional transfer fee,
// and an admin-managed blacklist.
//
// The Ledger facade is the single concurrency-safe entry point. It combines
// RoleRegistry authorization checks with SupplyLedger and TransferPolicy
// operations, serializing mutations behind a write lock while queries share a
// read lock. Every operation either fully commits, including event emission,
// or fully fails with no observable state change.
package ledger

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"
)

// Init carries the construction parameters. All four account identifiers
// must be non-null; name and symbol are descriptive metadata stored verbatim.
// A MaxSupply of zero (or nil) means uncapped.
type Init struct {
	Admin    Address
	Minter   Address
	Burner   Address
	Upgrader Address

	Name   string
	Symbol string

	MaxSupply *uint256.Int
}

// Option configures a Ledger at construction.
type Option func(*Ledger)

// WithEventSink attaches a sink receiving every emitted event record.
func WithEventSink(sink EventSink) Option {
	return func(l *Ledger) { l.sink = sink }
}

// Ledger is the externally observable operation set over the role registry,
// supply ledger and transfer policy. It owns no domain state of its own
// beyond allowance bookkeeping for delegated transfers.
type Ledger struct {
	mu sync.RWMutex

	name   string
	symbol string

	roles  *RoleRegistry
	supply *SupplyLedger
	policy *TransferPolicy

	// allowances[owner][spender] is the amount spender may still move on
	// behalf of owner through TransferFrom.
	allowances map[Address]map[Address]*uint256.Int

	sink EventSink
}

// New constructs a ledger from init parameters. It fails with
// ErrInvalidInitParams if any of the four role accounts is the null address.
func New(init Init, opts ...Option) (*Ledger, error) {
	holders := []struct {
		role    Role
		account Address
	}{
		{RoleAdmin, init.Admin},
		{RoleMinter, init.Minter},
		{RoleBurner, init.Burner},
		{RoleUpgrader, init.Upgrader},
	}
	for _, h := range holders {
		if h.account.IsZero() {
			return nil, fmt.Errorf("%w: null %s account", ErrInvalidInitParams, h.role)
		}
	}

	roles := newRoleRegistry()
	supply := newSupplyLedger(roles, init.MaxSupply)

	l := &Ledger{
		name:       init.Name,
		symbol:     init.Symbol,
		roles:      roles,
		supply:     supply,
		policy:     newTransferPolicy(roles, supply),
		allowances: make(map[Address]map[Address]*uint256.Int),
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, h := range holders {
		roles.grant(h.role, h.account)
		l.emit(EventRoleGranted, RolePayload{Role: h.role, Account: h.account})
	}
	return l, nil
}

// Name returns the descriptive token name.
func (l *Ledger) Name() string { return l.name }

// Symbol returns the descriptive token symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// HasRole reports whether account holds role.
func (l *Ledger) HasRole(role Role, account Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.roles.HasRole(role, account)
}

// GrantRole adds account to role; the caller must hold the administrating
// role. Emits RoleGranted when membership changes.
func (l *Ledger) GrantRole(role Role, account Address, caller Address) error {
	if err := requireAccount(account); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	changed, err := l.roles.GrantRole(role, account, caller)
	if err != nil {
		return err
	}
	if changed {
		l.emit(EventRoleGranted, RolePayload{Role: role, Account: account})
	}
	return nil
}

// RevokeRole removes account from role; same authorization rule as
// GrantRole. Emits RoleRevoked when membership changes.
func (l *Ledger) RevokeRole(role Role, account Address, caller Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	changed, err := l.roles.RevokeRole(role, account, caller)
	if err != nil {
		return err
	}
	if changed {
		l.emit(EventRoleRevoked, RolePayload{Role: role, Account: account})
	}
	return nil
}

// BalanceOf returns the balance of account.
func (l *Ledger) BalanceOf(account Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supply.BalanceOf(account)
}

// TotalSupply returns the sum of all balances.
func (l *Ledger) TotalSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supply.TotalSupply()
}

// MaxTotalSupply returns the supply cap; zero means uncapped.
func (l *Ledger) MaxTotalSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supply.MaxTotalSupply()
}

// FeeRate returns the send-fee rate in basis points.
func (l *Ledger) FeeRate() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.FeeRate()
}

// IsBlacklisted reports whether account is blocked from transacting.
func (l *Ledger) IsBlacklisted(account Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.IsBlacklisted(account)
}

// Mint creates amount new tokens on account. MINTER-gated; rejected when a
// nonzero cap would be exceeded.
func (l *Ledger) Mint(to Address, amount *uint256.Int, caller Address) error {
	if err := requireAccount(to); err != nil {
		return err
	}
	amount = cloneAmount(amount)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.supply.Mint(to, amount, caller); err != nil {
		return err
	}
	l.emit(EventMint, MintPayload{To: to, Amount: amount.Dec()})
	return nil
}

// Burn destroys amount tokens held by account. BURNER-gated.
func (l *Ledger) Burn(from Address, amount *uint256.Int, caller Address) error {
	if err := requireAccount(from); err != nil {
		return err
	}
	amount = cloneAmount(amount)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.supply.Burn(from, amount, caller); err != nil {
		return err
	}
	l.emit(EventBurn, BurnPayload{From: from, Amount: amount.Dec()})
	return nil
}

// SetMaxTotalSupply replaces the supply cap. ADMIN-gated; the new cap must
// not fall below the circulating supply.
func (l *Ledger) SetMaxTotalSupply(newCap *uint256.Int, caller Address) error {
	newCap = cloneAmount(newCap)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.supply.SetMaxTotalSupply(newCap, caller); err != nil {
		return err
	}
	l.emit(EventMaxSupplyChanged, MaxSupplyChangedPayload{NewCap: newCap.Dec()})
	return nil
}

// SetBlacklist sets the blacklist membership of account. ADMIN-gated;
// idempotent, and emits BlacklistChanged either way.
func (l *Ledger) SetBlacklist(account Address, status bool, caller Address) error {
	if err := requireAccount(account); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.policy.SetBlacklist(account, status, caller); err != nil {
		return err
	}
	l.emit(EventBlacklistChanged, BlacklistChangedPayload{Account: account, Status: status})
	return nil
}

// SetSendFee sets the basis-point fee applied to direct transfers.
// ADMIN-gated; rates above 10000 are rejected.
func (l *Ledger) SetSendFee(rateBps uint64, caller Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.policy.SetSendFee(rateBps, caller); err != nil {
		return err
	}
	l.emit(EventSendFeeChanged, SendFeeChangedPayload{NewRate: rateBps})
	return nil
}

// Transfer moves amount from the sender to the recipient along the
// fee-bearing path: the fee is burned from the sender and amount-fee is
// credited to the recipient. Emits Burn for a nonzero fee, then Transfer for
// the net amount.
func (l *Ledger) Transfer(from, to Address, amount *uint256.Int) error {
	if err := requireAccount(from); err != nil {
		return err
	}
	if err := requireAccount(to); err != nil {
		return err
	}
	amount = cloneAmount(amount)

	l.mu.Lock()
	defer l.mu.Unlock()

	fee, err := l.policy.executeTransfer(from, to, amount)
	if err != nil {
		return err
	}
	if !fee.IsZero() {
		l.emit(EventBurn, BurnPayload{From: from, Amount: fee.Dec()})
	}
	net := new(uint256.Int).Sub(amount, fee)
	l.emit(EventTransfer, TransferPayload{From: from, To: to, Amount: net.Dec()})
	return nil
}

// Approve sets the allowance spender may move on behalf of owner through
// TransferFrom. Emits Approval.
func (l *Ledger) Approve(owner, spender Address, amount *uint256.Int) error {
	if err := requireAccount(owner); err != nil {
		return err
	}
	if err := requireAccount(spender); err != nil {
		return err
	}
	amount = cloneAmount(amount)

	l.mu.Lock()
	defer l.mu.Unlock()

	byOwner := l.allowances[owner]
	if byOwner == nil {
		byOwner = make(map[Address]*uint256.Int)
		l.allowances[owner] = byOwner
	}
	if amount.IsZero() {
		delete(byOwner, spender)
	} else {
		byOwner[spender] = amount
	}
	l.emit(EventApproval, ApprovalPayload{Owner: owner, Spender: spender, Amount: amount.Dec()})
	return nil
}

// Allowance returns the amount spender may still move on behalf of owner.
func (l *Ledger) Allowance(owner, spender Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneAmount(l.allowances[owner][spender])
}

// TransferFrom moves amount from owner to recipient on the authority of a
// prior approval, along the fee-free delegated path. The allowance shrinks by
// amount; an insufficient allowance fails with ErrUnauthorized.
//
// Direct transfers are taxed and delegated transfers are not. The asymmetry
// is intentional and matches the deployed behavior this ledger models.
func (l *Ledger) TransferFrom(spender, from, to Address, amount *uint256.Int) error {
	if err := requireAccount(from); err != nil {
		return err
	}
	if err := requireAccount(to); err != nil {
		return err
	}
	amount = cloneAmount(amount)

	l.mu.Lock()
	defer l.mu.Unlock()

	// A missing approval is an allowance of zero, which still covers a
	// zero-amount transfer.
	allowance := l.allowances[from][spender]
	if allowance == nil {
		allowance = new(uint256.Int)
	}
	if allowance.Lt(amount) {
		return fmt.Errorf("%w: allowance of %s for %s is %s, needs %s",
			ErrUnauthorized, from, spender, allowance.Dec(), amount.Dec())
	}

	if err := l.policy.executeDelegatedTransfer(from, to, amount); err != nil {
		return err
	}

	remaining := new(uint256.Int).Sub(allowance, amount)
	if remaining.IsZero() {
		delete(l.allowances[from], spender)
	} else {
		l.allowances[from][spender] = remaining
	}

	l.emit(EventTransfer, TransferPayload{From: from, To: to, Amount: amount.Dec()})
	return nil
}

// emit delivers an event record to the sink, if any. Called with the ledger
// lock held after the mutation is applied.
func (l *Ledger) emit(kind EventKind, payload any) {
	if l.sink == nil {
		return
	}
	l.sink.Record(Event{Kind: kind, Payload: payload})
}

// requireAccount rejects the null address, which cannot hold balances,
// roles or approvals.
func requireAccount(a Address) error {
	if a.IsZero() {
		return fmt.Errorf("%w: null account address", ErrInvalidInitParams)
	}
	return nil
}
