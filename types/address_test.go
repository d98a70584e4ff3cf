package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestICANConstruction runs ToICAN over a spread of payloads and networks and ensures the
// resulting addresses carry valid checksums, correct prefixes, and round-trip through parsing.
func TestICANConstruction(t *testing.T) {
	payloads := [][20]byte{
		{},
		{0x01},
		{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa, 0x99, 0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11, 0x00, 0xde, 0xad, 0xbe, 0xef},
		{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78},
	}
	networks := []Network{Mainnet, Devin, Network(1337)}

	for _, network := range networks {
		for _, payload := range payloads {
			addr := ToICAN(payload, network)

			// The prefix must match the network and the payload must survive unchanged.
			assert.Equal(t, network.AddressPrefix(), addr.String()[:2])
			assert.EqualValues(t, payload, addr.Payload())
			assert.True(t, addr.ValidChecksum())

			// The string form must parse back to the same address.
			parsed, err := ParseAddress(addr.String())
			assert.NoError(t, err)
			assert.Equal(t, addr, parsed)
		}
	}
}

// TestAddressChecksumTamper ensures that flipping any payload nibble of a valid address is caught
// by checksum verification during parsing.
func TestAddressChecksumTamper(t *testing.T) {
	addr := ToICAN([20]byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}, Mainnet)
	s := []byte(addr.String())

	// Flip one payload character at a time and expect every variant to be rejected.
	for i := 4; i < len(s); i++ {
		tampered := make([]byte, len(s))
		copy(tampered, s)
		if tampered[i] == '0' {
			tampered[i] = '1'
		} else {
			tampered[i] = '0'
		}
		if string(tampered) == string(s) {
			continue
		}
		_, err := ParseAddress(string(tampered))
		assert.Error(t, err, "tampered address %s at index %d should not parse", tampered, i)
	}
}

// TestAddressParseErrors exercises the malformed-input paths of ParseAddress.
func TestAddressParseErrors(t *testing.T) {
	// Too short, too long, and non-hex content must all be rejected.
	_, err := ParseAddress("cb01")
	assert.Error(t, err)
	_, err = ParseAddress("cb" + string(make([]byte, 100)))
	assert.Error(t, err)
	_, err = ParseAddress("zz000000000000000000000000000000000000000000")
	assert.Error(t, err)
}

// TestAddressJSONRoundTrip ensures addresses marshal to their canonical string form and back.
func TestAddressJSONRoundTrip(t *testing.T) {
	addr := ToICAN([20]byte{0xab, 0xcd}, Devin)
	encoded, err := json.Marshal(addr)
	assert.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(encoded))

	var decoded Address
	assert.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, addr, decoded)
}
