package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// AddressLength is the expected byte length of an ICAN address: a two character network prefix,
// two checksum digits, and a 20-byte payload.
const AddressLength = 22

// Address represents a 22-byte ICAN address of a Core account or contract. The first byte encodes
// the network prefix ("cb" mainnet, "ab" testnet, "ce" private), the second byte the two mod-97
// checksum digits, and the remaining 20 bytes the account payload.
type Address [AddressLength]byte

// ZeroAddress is the all-zero address. It is not a valid ICAN address and is only useful as a
// comparison sentinel.
var ZeroAddress = Address{}

// BytesToAddress returns an Address with value b. If b is larger than AddressLength, b is cropped
// from the left; if smaller, it is left-padded with zeroes.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// ParseAddress parses an ICAN address from its 44 character hex representation, with or without a
// leading "0x", and verifies its checksum digits.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != AddressLength*2 {
		return Address{}, errors.Errorf("invalid address length: got %d hex characters, want %d", len(s), AddressLength*2)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, errors.Wrap(err, "invalid address encoding")
	}
	addr := BytesToAddress(b)
	if !addr.ValidChecksum() {
		return Address{}, errors.Errorf("invalid address checksum: %s", s)
	}
	return addr, nil
}

// HexToAddress parses an ICAN address from its hex representation and panics if it is malformed.
// It is intended for hardcoded, known-good addresses such as those in tests.
func HexToAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// ToICAN constructs a checksummed ICAN address from a raw 20-byte account payload and a network.
func ToICAN(payload [20]byte, network Network) Address {
	prefix := network.AddressPrefix()
	payloadHex := hex.EncodeToString(payload[:])
	checksum := icanChecksum(payloadHex + prefix + "00")
	addr, err := ParseAddress(fmt.Sprintf("%s%02d%s", prefix, checksum, payloadHex))
	if err != nil {
		// The checksum was just computed over the same digits, so a failure here means the
		// construction above is wrong, not the input.
		panic(err)
	}
	return addr
}

// icanChecksum computes the IBAN-style mod-97 checksum over a hex string: every hex digit is
// mapped to its decimal value, the resulting digit string is reduced mod 97, and the checksum is
// its complement to 98.
func icanChecksum(hexDigits string) uint64 {
	var acc uint64
	for _, ch := range hexDigits {
		v := uint64(hexDigitValue(byte(ch)))
		if v >= 10 {
			// Two-digit values consume two decimal positions.
			acc = (acc*100 + v) % 97
		} else {
			acc = (acc*10 + v) % 97
		}
	}
	return 98 - acc
}

// hexDigitValue maps an ASCII hex digit to its numeric value. Inputs are pre-validated by callers.
func hexDigitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// ValidChecksum reports whether the address' embedded checksum digits match its payload and
// network prefix.
func (a Address) ValidChecksum() bool {
	full := hex.EncodeToString(a[:])
	prefix, check, payload := full[:2], full[2:4], full[4:]
	// The checksum digits are decimal digits stored as hex characters.
	if check[0] > '9' || check[1] > '9' {
		return false
	}
	want := (uint64(check[0]-'0'))*10 + uint64(check[1]-'0')
	return icanChecksum(payload+prefix+"00") == want
}

// Payload returns the 20-byte account payload portion of the address.
func (a Address) Payload() [20]byte {
	var p [20]byte
	copy(p[:], a[2:])
	return p
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// String returns the lowercase hex representation of the address without a 0x prefix, the
// conventional rendering of ICAN addresses.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalText implements encoding.TextMarshaler, producing the canonical string form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, parsing and checksum-verifying the address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
