package asset

import (
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// AddressLength is the byte length of a ledger address.
const AddressLength = 32

// ErrInvalidAddress is returned when a text address does not decode to
// AddressLength bytes.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a ledger account address. Both key-backed accounts and
// program-derived accounts share this representation.
type Address [AddressLength]byte

// ParseAddress decodes a base58 address.
func ParseAddress(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, errors.Wrapf(ErrInvalidAddress, "%q: %v", s, err)
	}
	if len(raw) != AddressLength {
		return Address{}, errors.Wrapf(ErrInvalidAddress, "%q decodes to %d bytes", s, len(raw))
	}

	var a Address
	copy(a[:], raw)
	return a, nil
}

// MustParseAddress is ParseAddress for compile-time constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}

	return a
}

// String returns the base58 encoding of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
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
