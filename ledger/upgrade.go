package ledger

import "fmt"

// UpgradeGate is the authorization predicate consulted by the surrounding
// delivery mechanism before swapping the active implementation behind the
// stable storage layout. The gate only answers allow/deny; the swap itself is
// the host's problem.
type UpgradeGate struct {
	ledger *Ledger
}

// NewUpgradeGate builds a gate over the ledger's role registry.
func NewUpgradeGate(l *Ledger) *UpgradeGate {
	return &UpgradeGate{ledger: l}
}

// AuthorizeUpgrade returns nil iff caller holds UPGRADER, emitting
// UpgradeAuthorized on success.
func (g *UpgradeGate) AuthorizeUpgrade(newImplementation string, caller Address) error {
	l := g.ledger

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.roles.HasRole(RoleUpgrader, caller) {
		return fmt.Errorf("%w: %s does not hold %s", ErrUnauthorized, caller, RoleUpgrader)
	}
	l.emit(EventUpgradeAuthorized, UpgradeAuthorizedPayload{
		NewImplementation: newImplementation,
		Caller:            caller,
	})
	return nil
}
