package ledger_test

import (
	"bytes"
	"testing"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func TestAddress(t *testing.T) {
	t.Run("ParseRoundTrip", func(t *testing.T) {
		want := "0x0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a"
		parsed, err := ledger.ParseAddress(want)
		if err != nil {
			t.Fatal(err)
		}
		if got := parsed.String(); got != want {
			t.Errorf("String() = %s, want %s", got, want)
		}

		// The 0x prefix is optional on input.
		bare, err := ledger.ParseAddress(want[2:])
		if err != nil {
			t.Fatal(err)
		}
		if bare != parsed {
			t.Error("prefixed and bare forms parse differently")
		}
	})

	t.Run("ParseRejectsBadInput", func(t *testing.T) {
		for _, input := range []string{"", "0x", "0xzz", "0x0a0b", "not hex"} {
			if _, err := ledger.ParseAddress(input); err == nil {
				t.Errorf("ParseAddress(%q) succeeded", input)
			}
		}
	})

	t.Run("FromBytes", func(t *testing.T) {
		raw := bytes.Repeat([]byte{0x0a}, ledger.AddressLen)
		a, err := ledger.AddressFromBytes(raw)
		if err != nil {
			t.Fatal(err)
		}
		if a != addr(0x0a) {
			t.Errorf("AddressFromBytes = %s", a)
		}
		if _, err := ledger.AddressFromBytes(raw[:19]); err == nil {
			t.Error("short input accepted")
		}
	})

	t.Run("TextCodec", func(t *testing.T) {
		a := addr(0x0b)
		text, err := a.MarshalText()
		if err != nil {
			t.Fatal(err)
		}

		var back ledger.Address
		if err := back.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if back != a {
			t.Errorf("round trip = %s, want %s", back, a)
		}
	})

	t.Run("NullAddress", func(t *testing.T) {
		if !ledger.ZeroAddress.IsZero() {
			t.Error("zero value not null")
		}
		if addr(1).IsZero() {
			t.Error("nonzero address reported null")
		}
	})
}
