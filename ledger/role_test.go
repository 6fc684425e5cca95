package ledger

import (
	"errors"
	"testing"
)

func testAddr(n byte) Address {
	var a Address
	for i := range a {
		a[i] = n
	}
	return a
}

func TestRoleRegistry(t *testing.T) {
	admin := testAddr(1)
	user := testAddr(9)

	newRegistry := func() *RoleRegistry {
		r := newRoleRegistry()
		r.grant(RoleAdmin, admin)
		return r
	}

	t.Run("AdminMapping", func(t *testing.T) {
		r := newRegistry()
		for _, role := range Roles {
			if got := r.AdminRole(role); got != RoleAdmin {
				t.Errorf("admin role of %s = %s, want %s", role, got, RoleAdmin)
			}
		}
	})

	t.Run("GrantRequiresAdminRole", func(t *testing.T) {
		r := newRegistry()
		if _, err := r.GrantRole(RoleMinter, user, user); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("grant by non-admin: got %v, want ErrUnauthorized", err)
		}
		if r.HasRole(RoleMinter, user) {
			t.Error("failed grant must not change membership")
		}

		if _, err := r.GrantRole(RoleMinter, user, admin); err != nil {
			t.Fatalf("grant by admin failed: %v", err)
		}
		if !r.HasRole(RoleMinter, user) {
			t.Error("granted role not held")
		}
	})

	t.Run("GrantIdempotent", func(t *testing.T) {
		r := newRegistry()
		changed, err := r.GrantRole(RoleBurner, user, admin)
		if err != nil || !changed {
			t.Fatalf("first grant: changed=%v err=%v", changed, err)
		}
		changed, err = r.GrantRole(RoleBurner, user, admin)
		if err != nil {
			t.Fatalf("second grant: %v", err)
		}
		if changed {
			t.Error("second grant reported a membership change")
		}
	})

	t.Run("RevokeRequiresAdminRole", func(t *testing.T) {
		r := newRegistry()
		if _, err := r.GrantRole(RoleUpgrader, user, admin); err != nil {
			t.Fatal(err)
		}
		if _, err := r.RevokeRole(RoleUpgrader, user, user); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("revoke by non-admin: got %v, want ErrUnauthorized", err)
		}
		if !r.HasRole(RoleUpgrader, user) {
			t.Error("failed revoke must not change membership")
		}

		if _, err := r.RevokeRole(RoleUpgrader, user, admin); err != nil {
			t.Fatalf("revoke by admin failed: %v", err)
		}
		if r.HasRole(RoleUpgrader, user) {
			t.Error("revoked role still held")
		}
	})

	t.Run("RevokeNonHeldIsNoop", func(t *testing.T) {
		r := newRegistry()
		changed, err := r.RevokeRole(RoleMinter, user, admin)
		if err != nil {
			t.Fatalf("revoke of non-held role: %v", err)
		}
		if changed {
			t.Error("revoke of non-held role reported a change")
		}
	})

	t.Run("UnknownRoleHeldByNobody", func(t *testing.T) {
		r := newRegistry()
		if r.HasRole(Role("AUDITOR"), admin) {
			t.Error("unknown role reported as held")
		}
		if _, err := r.GrantRole(Role("AUDITOR"), user, admin); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("grant of unknown role: got %v, want ErrUnauthorized", err)
		}
	})
}
