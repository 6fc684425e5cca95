package ledger

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLen is the width of an account identifier in bytes.
const AddressLen = 20

// Address identifies an account. The zero value is the null address,
// which never holds a balance or a role.
type Address [AddressLen]byte

// ZeroAddress is the null account identifier.
var ZeroAddress Address

// IsZero reports whether the address is the null address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String returns the 0x-prefixed hex form of the address.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText implements encoding.TextMarshaler. Addresses serialize as
// 0x-prefixed hex, which also makes them usable as JSON map keys.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a hex address with or without a 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address

	raw := strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return a, fmt.Errorf("parse address %q: %w", s, err)
	}
	if len(b) != AddressLen {
		return a, fmt.Errorf("parse address %q: expected %d bytes, got %d", s, AddressLen, len(b))
	}

	copy(a[:], b)
	return a, nil
}

// AddressFromBytes builds an address from a raw byte slice.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("address from bytes: expected %d bytes, got %d", AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}
