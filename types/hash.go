package types

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// HashLength is the byte length of a Hash.
const HashLength = 32

// Hash represents a 32-byte SHA3-256 hash of arbitrary data, such as a transaction identifier,
// a block hash, or a log topic.
type Hash [HashLength]byte

// BytesToHash returns a Hash with value b. If b is larger than HashLength, b is cropped from the
// left; if smaller, it is left-padded with zeroes.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// ParseHash parses a hash from its 64 character hex representation, with or without a leading "0x".
func ParseHash(s string) (Hash, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != HashLength*2 {
		return Hash{}, errors.Errorf("invalid hash length: got %d hex characters, want %d", len(s), HashLength*2)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, errors.Wrap(err, "invalid hash encoding")
	}
	return BytesToHash(b), nil
}

// HexToHash parses a hash from its hex representation and panics if it is malformed. It is
// intended for hardcoded, known-good hashes such as those in tests.
func HexToHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// String returns the 0x-prefixed lowercase hex representation of the hash.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(input []byte) error {
	parsed, err := ParseHash(string(input))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
