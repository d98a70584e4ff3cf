package types

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Bytes is a byte slice which marshals to and from 0x-prefixed hex in JSON, matching the encoding
// used by node RPC interfaces for opaque data fields.
type Bytes []byte

// ParseBytes decodes a 0x-prefixed or bare hex string into a Bytes value.
func ParseBytes(s string) (Bytes, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex data")
	}
	return b, nil
}

// String returns the 0x-prefixed hex representation of the data.
func (b Bytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

// MarshalText implements encoding.TextMarshaler.
func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bytes) UnmarshalText(input []byte) error {
	decoded, err := ParseBytes(string(input))
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
