package statestore_test

import (
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/ledger"
	"github.com/pflow-xyz/go-ledger/statestore"
)

func addr(n byte) ledger.Address {
	var a ledger.Address
	a[19] = n
	return a
}

func buildLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.New(ledger.Init{
		Admin:     addr(1),
		Minter:    addr(2),
		Burner:    addr(3),
		Upgrader:  addr(4),
		Name:      "Test Token",
		Symbol:    "TST",
		MaxSupply: uint256.NewInt(1_000_000),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Mint(addr(10), uint256.NewInt(500), addr(2)); err != nil {
		t.Fatal(err)
	}
	if err := l.Transfer(addr(10), addr(11), uint256.NewInt(120)); err != nil {
		t.Fatal(err)
	}
	if err := l.Approve(addr(10), addr(12), uint256.NewInt(77)); err != nil {
		t.Fatal(err)
	}
	if err := l.SetSendFee(250, addr(1)); err != nil {
		t.Fatal(err)
	}
	if err := l.SetBlacklist(addr(13), true, addr(1)); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := statestore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	exists, err := store.Exists()
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("fresh database reports existing state")
	}

	l := buildLedger(t)
	if err := store.Save(l.Snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	exists, err = store.Exists()
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("saved state not detected")
	}

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	restored, err := ledger.Restore(snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.Name() != "Test Token" || restored.Symbol() != "TST" {
		t.Errorf("metadata = %q/%q", restored.Name(), restored.Symbol())
	}
	if got := restored.TotalSupply(); !got.Eq(uint256.NewInt(500)) {
		t.Errorf("supply = %s, want 500", got.Dec())
	}
	if got := restored.MaxTotalSupply(); !got.Eq(uint256.NewInt(1_000_000)) {
		t.Errorf("cap = %s", got.Dec())
	}
	if got := restored.BalanceOf(addr(10)); !got.Eq(uint256.NewInt(380)) {
		t.Errorf("sender balance = %s, want 380", got.Dec())
	}
	if got := restored.BalanceOf(addr(11)); !got.Eq(uint256.NewInt(120)) {
		t.Errorf("recipient balance = %s, want 120", got.Dec())
	}
	if got := restored.Allowance(addr(10), addr(12)); !got.Eq(uint256.NewInt(77)) {
		t.Errorf("allowance = %s, want 77", got.Dec())
	}
	if restored.FeeRate() != 250 {
		t.Errorf("fee rate = %d, want 250", restored.FeeRate())
	}
	if !restored.IsBlacklisted(addr(13)) {
		t.Error("blacklist entry lost")
	}
	for role, holder := range map[ledger.Role]ledger.Address{
		ledger.RoleAdmin:    addr(1),
		ledger.RoleMinter:   addr(2),
		ledger.RoleBurner:   addr(3),
		ledger.RoleUpgrader: addr(4),
	} {
		if !restored.HasRole(role, holder) {
			t.Errorf("%s lost for %s", role, holder)
		}
	}
}

func TestSaveReplacesPreviousState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := statestore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	l := buildLedger(t)
	if err := store.Save(l.Snapshot()); err != nil {
		t.Fatal(err)
	}

	// Mutate and save again; the old rows must not linger.
	if err := l.Burn(addr(11), uint256.NewInt(120), addr(3)); err != nil {
		t.Fatal(err)
	}
	if err := l.SetBlacklist(addr(13), false, addr(1)); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(l.Snapshot()); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := snap.Balances[addr(11)]; ok {
		t.Error("burned-out balance row survived the save")
	}
	if len(snap.Blacklist) != 0 {
		t.Errorf("blacklist = %v, want empty", snap.Blacklist)
	}
	if !snap.TotalSupply.Eq(uint256.NewInt(380)) {
		t.Errorf("supply = %s, want 380", snap.TotalSupply.Dec())
	}
}

func TestBalanceQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := statestore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	l := buildLedger(t)
	if err := store.Save(l.Snapshot()); err != nil {
		t.Fatal(err)
	}

	got, err := store.Balance(addr(11))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Eq(uint256.NewInt(120)) {
		t.Errorf("balance = %s, want 120", got.Dec())
	}

	// Unknown accounts read as zero rather than an error.
	got, err = store.Balance(addr(99))
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsZero() {
		t.Errorf("unknown account balance = %s, want 0", got.Dec())
	}
}
