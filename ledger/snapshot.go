package ledger

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Snapshot is a consistent, fully-owned copy of the ledger state in the
// externally inspectable layout: role membership and role-admin tables, the
// balance table, the scalar fields, the blacklist and the allowance table.
// Snapshots feed persistence (statestore) and external observers; mutating a
// snapshot never touches the live ledger.
type Snapshot struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`

	TotalSupply    *uint256.Int `json:"totalSupply"`
	MaxTotalSupply *uint256.Int `json:"maxTotalSupply"`
	FeeRateBps     uint64       `json:"feeRateBps"`

	Roles      map[Role][]Address       `json:"roles"`
	RoleAdmins map[Role]Role            `json:"roleAdmins"`
	Balances   map[Address]*uint256.Int `json:"balances"`
	Blacklist  []Address                `json:"blacklist"`

	Allowances map[Address]map[Address]*uint256.Int `json:"allowances,omitempty"`
}

// Snapshot captures the current state under the read lock.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := &Snapshot{
		Name:           l.name,
		Symbol:         l.symbol,
		TotalSupply:    l.supply.TotalSupply(),
		MaxTotalSupply: l.supply.MaxTotalSupply(),
		FeeRateBps:     l.policy.FeeRate(),
		Roles:          make(map[Role][]Address, len(Roles)),
		RoleAdmins:     make(map[Role]Role, len(Roles)),
		Balances:       make(map[Address]*uint256.Int, len(l.supply.balances)),
		Blacklist:      l.policy.Blacklisted(),
		Allowances:     make(map[Address]map[Address]*uint256.Int, len(l.allowances)),
	}

	for _, role := range Roles {
		snap.Roles[role] = l.roles.Members(role)
		snap.RoleAdmins[role] = l.roles.AdminRole(role)
	}
	for account, balance := range l.supply.balances {
		snap.Balances[account] = cloneAmount(balance)
	}
	for owner, byOwner := range l.allowances {
		cp := make(map[Address]*uint256.Int, len(byOwner))
		for spender, amount := range byOwner {
			cp[spender] = cloneAmount(amount)
		}
		snap.Allowances[owner] = cp
	}
	return snap
}

// Restore rebuilds a ledger from a snapshot, bypassing construction and
// operation rules: the snapshot is trusted to describe a state the ledger
// itself produced. It fails only when the snapshot breaks the conservation
// invariant totalSupply == sum(balances).
func Restore(snap *Snapshot, opts ...Option) (*Ledger, error) {
	sum := new(uint256.Int)
	for _, balance := range snap.Balances {
		if _, overflow := sum.AddOverflow(sum, balance); overflow {
			return nil, fmt.Errorf("restore: balance sum: %w", ErrArithmeticOverflow)
		}
	}
	total := cloneAmount(snap.TotalSupply)
	if !sum.Eq(total) {
		return nil, fmt.Errorf("restore: total supply %s != balance sum %s", total.Dec(), sum.Dec())
	}

	roles := newRoleRegistry()
	for role, members := range snap.Roles {
		for _, account := range members {
			roles.grant(role, account)
		}
	}

	supply := newSupplyLedger(roles, snap.MaxTotalSupply)
	supply.totalSupply = total
	for account, balance := range snap.Balances {
		if balance.IsZero() {
			continue
		}
		supply.balances[account] = cloneAmount(balance)
	}

	policy := newTransferPolicy(roles, supply)
	policy.feeRateBps = snap.FeeRateBps
	for _, account := range snap.Blacklist {
		policy.blacklist[account] = struct{}{}
	}

	l := &Ledger{
		name:       snap.Name,
		symbol:     snap.Symbol,
		roles:      roles,
		supply:     supply,
		policy:     policy,
		allowances: make(map[Address]map[Address]*uint256.Int, len(snap.Allowances)),
	}
	for owner, byOwner := range snap.Allowances {
		cp := make(map[Address]*uint256.Int, len(byOwner))
		for spender, amount := range byOwner {
			if amount.IsZero() {
				continue
			}
			cp[spender] = cloneAmount(amount)
		}
		if len(cp) > 0 {
			l.allowances[owner] = cp
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}
