package transport

import (
	"encoding/hex"
	"errors"
)

// NameSize is the size of a GDP name in bytes (a flat 256-bit identifier).
const NameSize = 32

// Name is a flat 32-byte opaque identifier denoting a logical GDP
// destination. Any 32-byte sequence is a syntactically valid name; names
// are compared byte-for-byte and never parsed for internal structure.
// Whether a name is actually reachable is decided during dispatch, not here.
type Name [NameSize]byte

// NameFromString parses a name from its 64-character hexadecimal
// representation.
func NameFromString(s string) (Name, error) {
	var name Name
	if len(s) != NameSize*2 {
		return name, errors.New("invalid name length")
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return name, err
	}
	copy(name[:], data)
	return name, nil
}

// NameFromBytes copies exactly NameSize bytes into a Name. It fails if
// the slice is not exactly NameSize bytes long; the caller's buffer is
// never read past that bound.
func NameFromBytes(b []byte) (Name, error) {
	var name Name
	if len(b) != NameSize {
		return name, errors.New("invalid name length")
	}
	copy(name[:], b)
	return name, nil
}

// String returns the hexadecimal representation of the name.
func (n Name) String() string {
	return hex.EncodeToString(n[:])
}

// IsZero reports whether the name is the all-zero name. The zero name is
// still syntactically valid; this is a convenience for choosing defaults.
func (n Name) IsZero() bool {
	return n == Name{}
}
