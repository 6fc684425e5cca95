package ledger

import "fmt"

// Role is a named permission bucket controlling who may invoke a class of
// operations.
type Role string

// The fixed role identifiers. ADMIN administrates every role, including
// itself; the mapping is set once at construction and never changes.
const (
	RoleAdmin    Role = "ADMIN"
	RoleMinter   Role = "MINTER"
	RoleBurner   Role = "BURNER"
	RoleUpgrader Role = "UPGRADER"
)

// Roles lists every role the registry knows about.
var Roles = []Role{RoleAdmin, RoleMinter, RoleBurner, RoleUpgrader}

// RoleRegistry holds role membership and the role -> administrating role
// mapping. It answers membership queries and mutates membership only through
// admin-gated grant/revoke operations.
//
// RoleRegistry is not safe for concurrent use; the Ledger facade serializes
// access to it.
type RoleRegistry struct {
	members map[Role]map[Address]struct{}
	admins  map[Role]Role
}

func newRoleRegistry() *RoleRegistry {
	r := &RoleRegistry{
		members: make(map[Role]map[Address]struct{}),
		admins:  make(map[Role]Role),
	}
	for _, role := range Roles {
		r.members[role] = make(map[Address]struct{})
		r.setRoleAdmin(role, RoleAdmin)
	}
	return r
}

// setRoleAdmin fixes the administrating role for a role. Init-only; not
// reachable after construction.
func (r *RoleRegistry) setRoleAdmin(role, adminRole Role) {
	r.admins[role] = adminRole
}

// HasRole reports whether account holds role. It never fails; unknown roles
// are simply held by nobody.
func (r *RoleRegistry) HasRole(role Role, account Address) bool {
	_, ok := r.members[role][account]
	return ok
}

// AdminRole returns the administrating role for role.
func (r *RoleRegistry) AdminRole(role Role) Role {
	return r.admins[role]
}

// GrantRole adds account to role. The caller must hold the administrating
// role of role. Granting an already-held role is a no-op; the returned bool
// reports whether membership changed.
func (r *RoleRegistry) GrantRole(role Role, account Address, caller Address) (bool, error) {
	if err := r.checkAdmin(role, caller); err != nil {
		return false, err
	}
	if r.HasRole(role, account) {
		return false, nil
	}
	r.grant(role, account)
	return true, nil
}

// RevokeRole removes account from role under the same authorization rule as
// GrantRole. Revoking a non-held role is a no-op.
func (r *RoleRegistry) RevokeRole(role Role, account Address, caller Address) (bool, error) {
	if err := r.checkAdmin(role, caller); err != nil {
		return false, err
	}
	if !r.HasRole(role, account) {
		return false, nil
	}
	delete(r.members[role], account)
	return true, nil
}

// Members returns the accounts holding role.
func (r *RoleRegistry) Members(role Role) []Address {
	out := make([]Address, 0, len(r.members[role]))
	for a := range r.members[role] {
		out = append(out, a)
	}
	return out
}

// grant adds membership without an authorization check. Used during
// construction and by the checked GrantRole path.
func (r *RoleRegistry) grant(role Role, account Address) {
	set, ok := r.members[role]
	if !ok {
		set = make(map[Address]struct{})
		r.members[role] = set
	}
	set[account] = struct{}{}
}

func (r *RoleRegistry) checkAdmin(role Role, caller Address) error {
	admin, ok := r.admins[role]
	if !ok || !r.HasRole(admin, caller) {
		return fmt.Errorf("%w: %s is not %s of role %s", ErrUnauthorized, caller, admin, role)
	}
	return nil
}
