package abi

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/corebc/go-corebc/crypto"
	"github.com/corebc/go-corebc/types"
	"github.com/stretchr/testify/assert"
)

// testAddress returns a deterministic checksummed address whose payload is filled with the given
// byte.
func testAddress(fill byte) types.Address {
	var payload [20]byte
	for i := range payload {
		payload[i] = fill
	}
	return types.ToICAN(payload, types.Mainnet)
}

// mustType parses a type expression, failing the test on error.
func mustType(t *testing.T, expr string) *Type {
	parsed, err := ParseType(expr)
	assert.NoError(t, err, "failed to parse type expression %q", expr)
	return parsed
}

// roundTrip encodes a value, decodes the result, and returns the decoded value.
func roundTrip(t *testing.T, expr string, value interface{}) interface{} {
	typ := mustType(t, expr)
	encoded, err := Encode(typ, value)
	assert.NoError(t, err, "failed to encode %v as %q", value, expr)
	decoded, err := Decode(typ, encoded)
	assert.NoError(t, err, "failed to decode %q encoding", expr)
	return decoded
}

// TestStaticWordLayouts verifies the exact word layout of static scalar encodings: right-aligned
// unsigned values, sign-extended negatives, and the 22-byte address placement.
func TestStaticWordLayouts(t *testing.T) {
	// uint256(1000) occupies the low-order bytes of a single word.
	encoded, err := Encode(mustType(t, "uint256"), big.NewInt(1000))
	assert.NoError(t, err)
	assert.EqualValues(t, 32, len(encoded))
	assert.True(t, bytes.Equal(encoded[:30], make([]byte, 30)))
	assert.EqualValues(t, []byte{0x03, 0xe8}, encoded[30:])

	// int256(-1) sign-extends across the full word.
	encoded, err = Encode(mustType(t, "int256"), big.NewInt(-1))
	assert.NoError(t, err)
	assert.EqualValues(t, bytes.Repeat([]byte{0xff}, 32), encoded)

	// A true bool sets only the final byte.
	encoded, err = Encode(mustType(t, "bool"), true)
	assert.NoError(t, err)
	assert.EqualValues(t, byte(1), encoded[31])
	assert.True(t, bytes.Equal(encoded[:31], make([]byte, 31)))

	// An address is right-aligned with ten zero bytes of padding ahead of it.
	addr := testAddress(0x11)
	encoded, err = Encode(mustType(t, "address"), addr)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(encoded[:10], make([]byte, 10)))
	assert.EqualValues(t, addr.Bytes(), encoded[10:])

	// Fixed bytes are left-aligned and zero-padded on the right.
	encoded, err = Encode(mustType(t, "bytes4"), []byte{0xde, 0xad, 0xbe, 0xef})
	assert.NoError(t, err)
	assert.EqualValues(t, []byte{0xde, 0xad, 0xbe, 0xef}, encoded[:4])
	assert.True(t, bytes.Equal(encoded[4:], make([]byte, 28)))
}

// TestScalarRoundTrips encodes and decodes scalar values across the supported widths.
func TestScalarRoundTrips(t *testing.T) {
	// Unsigned and signed integers come back as *big.Int.
	decoded := roundTrip(t, "uint64", uint64(12345))
	assert.EqualValues(t, "12345", decoded.(*big.Int).String())

	decoded = roundTrip(t, "uint256", new(big.Int).Lsh(big.NewInt(1), 255))
	assert.EqualValues(t, 256, decoded.(*big.Int).BitLen())

	decoded = roundTrip(t, "int128", big.NewInt(-98765))
	assert.EqualValues(t, "-98765", decoded.(*big.Int).String())

	decoded = roundTrip(t, "int8", big.NewInt(-128))
	assert.EqualValues(t, "-128", decoded.(*big.Int).String())

	// Booleans, addresses and fixed bytes preserve their exact value.
	assert.EqualValues(t, true, roundTrip(t, "bool", true))
	assert.EqualValues(t, false, roundTrip(t, "bool", false))

	addr := testAddress(0x42)
	assert.EqualValues(t, addr, roundTrip(t, "address", addr))

	assert.EqualValues(t, []byte{1, 2, 3}, roundTrip(t, "bytes3", []byte{1, 2, 3}))
}

// TestIntegerRangeChecks verifies out-of-range values are rejected at encode time with a type
// mismatch rather than silently truncated.
func TestIntegerRangeChecks(t *testing.T) {
	tests := []struct {
		expr  string
		value *big.Int
	}{
		{"uint8", big.NewInt(256)},
		{"uint8", big.NewInt(-1)},
		{"uint256", new(big.Int).Lsh(big.NewInt(1), 256)},
		{"int8", big.NewInt(128)},
		{"int8", big.NewInt(-129)},
	}
	for _, test := range tests {
		_, err := Encode(mustType(t, test.expr), test.value)
		assert.Error(t, err, "expected range failure encoding %s as %q", test.value, test.expr)
		var tm *TypeMismatchError
		assert.ErrorAs(t, err, &tm)
	}

	// The extremes of each range still encode.
	_, err := Encode(mustType(t, "uint8"), big.NewInt(255))
	assert.NoError(t, err)
	_, err = Encode(mustType(t, "int8"), big.NewInt(127))
	assert.NoError(t, err)
	_, err = Encode(mustType(t, "int8"), big.NewInt(-128))
	assert.NoError(t, err)
}

// TestDynamicRoundTrips exercises the head/tail layout through dynamic bytes, strings, and arrays,
// including nesting of dynamic values inside dynamic containers.
func TestDynamicRoundTrips(t *testing.T) {
	assert.EqualValues(t, []byte{9, 8, 7, 6, 5}, roundTrip(t, "bytes", []byte{9, 8, 7, 6, 5}))
	assert.EqualValues(t, "", roundTrip(t, "string", ""))
	assert.EqualValues(t, "hello core", roundTrip(t, "string", "hello core"))

	// A dynamic array of static elements.
	decoded := roundTrip(t, "uint256[]", []interface{}{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
	elems := decoded.([]interface{})
	assert.EqualValues(t, 3, len(elems))
	for i, elem := range elems {
		assert.EqualValues(t, int64(i+1), elem.(*big.Int).Int64())
	}

	// An empty dynamic array decodes to zero elements.
	decoded = roundTrip(t, "uint256[]", []interface{}{})
	assert.EqualValues(t, 0, len(decoded.([]interface{})))

	// A dynamic array of dynamic elements requires nested offset indirection.
	decoded = roundTrip(t, "string[]", []interface{}{"alpha", "", "gamma"})
	elems = decoded.([]interface{})
	assert.EqualValues(t, 3, len(elems))
	assert.EqualValues(t, "alpha", elems[0])
	assert.EqualValues(t, "", elems[1])
	assert.EqualValues(t, "gamma", elems[2])

	// A fixed array of dynamic elements is itself dynamic.
	decoded = roundTrip(t, "bytes[2]", []interface{}{[]byte{1}, []byte{2, 3}})
	elems = decoded.([]interface{})
	assert.EqualValues(t, []byte{1}, elems[0])
	assert.EqualValues(t, []byte{2, 3}, elems[1])

	// Nested static arrays.
	decoded = roundTrip(t, "uint8[2][]", []interface{}{
		[]interface{}{uint8(1), uint8(2)},
		[]interface{}{uint8(3), uint8(4)},
	})
	elems = decoded.([]interface{})
	assert.EqualValues(t, 2, len(elems))
	inner := elems[1].([]interface{})
	assert.EqualValues(t, int64(3), inner[0].(*big.Int).Int64())
	assert.EqualValues(t, int64(4), inner[1].(*big.Int).Int64())
}

// TestTupleRoundTrips exercises tuple encoding with mixed static and dynamic members, including
// tuples nested inside tuples.
func TestTupleRoundTrips(t *testing.T) {
	addr := testAddress(0x07)
	decoded := roundTrip(t, "(address,uint256,string)", []interface{}{addr, big.NewInt(500), "memo"})
	fields := decoded.([]interface{})
	assert.EqualValues(t, addr, fields[0])
	assert.EqualValues(t, int64(500), fields[1].(*big.Int).Int64())
	assert.EqualValues(t, "memo", fields[2])

	decoded = roundTrip(t, "(uint64,(bool,string))", []interface{}{
		uint64(9), []interface{}{true, "nested"},
	})
	fields = decoded.([]interface{})
	assert.EqualValues(t, int64(9), fields[0].(*big.Int).Int64())
	inner := fields[1].([]interface{})
	assert.EqualValues(t, true, inner[0])
	assert.EqualValues(t, "nested", inner[1])
}

// TestEncodeShapeMismatches verifies wrongly shaped values fail with a type mismatch.
func TestEncodeShapeMismatches(t *testing.T) {
	tests := []struct {
		expr  string
		value interface{}
	}{
		{"uint256", "not a number"},
		{"bool", 1},
		{"address", []byte{1, 2, 3}},
		{"bytes4", []byte{1, 2, 3}}, // wrong length
		{"string", []byte("raw")},
		{"uint8[2]", []interface{}{uint8(1)}}, // wrong element count
		{"uint256[]", big.NewInt(1)},
		{"(bool,bool)", []interface{}{true}}, // wrong field count
	}
	for _, test := range tests {
		_, err := Encode(mustType(t, test.expr), test.value)
		assert.Error(t, err, "expected mismatch encoding %T as %q", test.value, test.expr)
		var tm *TypeMismatchError
		assert.ErrorAs(t, err, &tm)
	}
}

// TestDecodeTruncatedBuffers verifies every truncation of a valid encoding fails with a
// BufferUnderrunError instead of reading out of bounds or returning a partial value.
func TestDecodeTruncatedBuffers(t *testing.T) {
	tests := []struct {
		expr  string
		value interface{}
	}{
		{"uint256", big.NewInt(77)},
		{"string", "truncation probe"},
		{"uint256[]", []interface{}{big.NewInt(1), big.NewInt(2)}},
		{"(address,string)", []interface{}{testAddress(0x01), "x"}},
	}
	for _, test := range tests {
		typ := mustType(t, test.expr)
		encoded, err := Encode(typ, test.value)
		assert.NoError(t, err)

		// Every strict prefix must fail. Padding bytes are part of the layout, so even cutting
		// into them is a malformed buffer for the fixed-width reads that follow.
		for cut := 0; cut < len(encoded); cut++ {
			_, err := Decode(typ, encoded[:cut])
			if err == nil {
				// Cuts that only drop trailing pad bytes of the final dynamic element can still
				// satisfy every bounds check; those decodes are allowed to succeed.
				continue
			}
			var underrun *BufferUnderrunError
			assert.ErrorAs(t, err, &underrun, "expected underrun decoding %q cut to %d bytes", test.expr, cut)
		}

		// A fully truncated buffer always fails.
		_, err = Decode(typ, nil)
		assert.Error(t, err)
	}
}

// TestDecodeCorruptOffsets verifies a corrupted offset or length word is caught by bounds
// validation before it is dereferenced.
func TestDecodeCorruptOffsets(t *testing.T) {
	args := Arguments{{Name: "memo", Type: mustType(t, "string")}}
	encoded, err := args.Pack("corrupt me")
	assert.NoError(t, err)

	// Point the offset word past the end of the buffer.
	corrupt := append([]byte(nil), encoded...)
	corrupt[30] = 0xff
	corrupt[31] = 0xff
	_, err = args.Unpack(corrupt)
	var underrun *BufferUnderrunError
	assert.ErrorAs(t, err, &underrun)

	// Inflate the string's length word past the available content.
	corrupt = append([]byte(nil), encoded...)
	corrupt[62] = 0xff
	_, err = args.Unpack(corrupt)
	assert.ErrorAs(t, err, &underrun)

	// An offset word too large for any real buffer is rejected without allocation.
	corrupt = append([]byte(nil), encoded...)
	for i := 0; i < 32; i++ {
		corrupt[i] = 0xff
	}
	_, err = args.Unpack(corrupt)
	assert.ErrorAs(t, err, &underrun)
}

// TestDecodeInvalidBool verifies a word that is neither zero nor one is rejected rather than
// coerced to a truthy value.
func TestDecodeInvalidBool(t *testing.T) {
	word := make([]byte, 32)
	word[31] = 2
	_, err := Decode(mustType(t, "bool"), word)
	var tm *TypeMismatchError
	assert.ErrorAs(t, err, &tm)
}

// TestArgumentsPackErrors verifies argument list validation attributes failures to counts and
// indices before any encoding output is produced.
func TestArgumentsPackErrors(t *testing.T) {
	args := Arguments{
		{Name: "to", Type: mustType(t, "address")},
		{Name: "amount", Type: mustType(t, "uint256")},
	}

	// Wrong argument count.
	_, err := args.Pack(testAddress(0x01))
	var countErr *ArgumentCountError
	assert.ErrorAs(t, err, &countErr)
	assert.EqualValues(t, 2, countErr.Expected)
	assert.EqualValues(t, 1, countErr.Got)

	// Wrong argument shape, attributed to its index.
	_, err = args.Pack(testAddress(0x01), "not a number")
	var argErr *ArgumentTypeMismatchError
	assert.ErrorAs(t, err, &argErr)
	assert.EqualValues(t, 1, argErr.Index)
	assert.EqualValues(t, "uint256", argErr.Expected)
}

// TestMethodSelectorDerivation verifies selectors are the leading four bytes of the signature's
// SHA3-256 digest and that distinct signatures produce distinct selectors.
func TestMethodSelectorDerivation(t *testing.T) {
	transfer := NewMethod("transfer", Arguments{
		{Name: "to", Type: mustType(t, "address")},
		{Name: "amount", Type: mustType(t, "uint256")},
	}, nil, NonPayable)
	assert.EqualValues(t, "transfer(address,uint256)", transfer.Sig)
	assert.EqualValues(t, crypto.SHA3([]byte(transfer.Sig))[:SelectorLength], transfer.ID[:])

	// Overloads with different parameter lists get different selectors.
	transferFrom := NewMethod("transfer", Arguments{
		{Name: "to", Type: mustType(t, "address")},
		{Name: "amount", Type: mustType(t, "uint256")},
		{Name: "memo", Type: mustType(t, "string")},
	}, nil, NonPayable)
	assert.NotEqualValues(t, transfer.ID, transferFrom.ID)

	// Parameter names and spacing never influence the canonical signature.
	renamed := NewMethod("transfer", Arguments{
		{Name: "recipient", Type: mustType(t, "address")},
		{Name: "value", Type: mustType(t, "uint256")},
	}, nil, Payable)
	assert.EqualValues(t, transfer.ID, renamed.ID)

	// Event selectors span the full 32-byte digest.
	event := NewEvent("Transfer", Arguments{
		{Name: "from", Type: mustType(t, "address"), Indexed: true},
		{Name: "to", Type: mustType(t, "address"), Indexed: true},
		{Name: "amount", Type: mustType(t, "uint256")},
	}, false)
	assert.EqualValues(t, "Transfer(address,address,uint256)", event.Sig)
	assert.EqualValues(t, crypto.SHA3Hash([]byte(event.Sig)), event.ID)
}

// TestTransferArgumentLayout verifies the exact call data layout of a token transfer: the padded
// recipient word followed by the padded amount word.
func TestTransferArgumentLayout(t *testing.T) {
	to := testAddress(0x22)
	args := Arguments{
		{Name: "to", Type: mustType(t, "address")},
		{Name: "amount", Type: mustType(t, "uint256")},
	}
	encoded, err := args.Pack(to, big.NewInt(1000))
	assert.NoError(t, err)
	assert.EqualValues(t, 64, len(encoded))
	assert.EqualValues(t, to.Bytes(), encoded[10:32])
	assert.EqualValues(t, []byte{0x03, 0xe8}, encoded[62:])
	assert.True(t, bytes.Equal(encoded[32:62], make([]byte, 30)))

	// The packed arguments decode back to their originals.
	values, err := args.Unpack(encoded)
	assert.NoError(t, err)
	assert.EqualValues(t, to, values[0])
	assert.EqualValues(t, int64(1000), values[1].(*big.Int).Int64())
}
