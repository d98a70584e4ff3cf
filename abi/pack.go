package abi

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/corebc/go-corebc/types"
	"github.com/holiman/uint256"
)

// Encode encodes a single value against its descriptor. Static types occupy fixed-width words;
// dynamic types are encoded with their head/tail layout starting at offset zero of the returned
// buffer.
func Encode(t *Type, value interface{}) ([]byte, error) {
	return encodeValue(t, value)
}

// encodeValue dispatches on the descriptor kind and produces the value's complete encoding.
func encodeValue(t *Type, value interface{}) ([]byte, error) {
	switch t.Kind {
	case KindUint:
		return encodeUint(t, value)
	case KindInt:
		return encodeInt(t, value)
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, mismatch(t, value)
		}
		word := make([]byte, wordSize)
		if b {
			word[wordSize-1] = 1
		}
		return word, nil
	case KindAddress:
		addr, ok := value.(types.Address)
		if !ok {
			return nil, mismatch(t, value)
		}
		word := make([]byte, wordSize)
		copy(word[wordSize-types.AddressLength:], addr.Bytes())
		return word, nil
	case KindFixedBytes:
		b, ok := toBytes(value)
		if !ok || len(b) != t.Size {
			return nil, mismatch(t, value)
		}
		word := make([]byte, wordSize)
		copy(word, b)
		return word, nil
	case KindBytes:
		b, ok := toBytes(value)
		if !ok {
			return nil, mismatch(t, value)
		}
		return encodeLengthPrefixed(b), nil
	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, mismatch(t, value)
		}
		return encodeLengthPrefixed([]byte(s)), nil
	case KindArray:
		elems, ok := toSequence(value)
		if !ok {
			return nil, mismatch(t, value)
		}
		if len(elems) != t.Size {
			return nil, mismatch(t, value)
		}
		return encodeSequence(repeatType(t.Elem, len(elems)), elems)
	case KindSlice:
		elems, ok := toSequence(value)
		if !ok {
			return nil, mismatch(t, value)
		}
		body, err := encodeSequence(repeatType(t.Elem, len(elems)), elems)
		if err != nil {
			return nil, err
		}
		return append(lengthWord(len(elems)), body...), nil
	case KindTuple:
		elems, ok := toSequence(value)
		if !ok {
			return nil, mismatch(t, value)
		}
		if len(elems) != len(t.Fields) {
			return nil, mismatch(t, value)
		}
		fieldTypes := make([]*Type, len(t.Fields))
		for i, f := range t.Fields {
			fieldTypes[i] = f.Type
		}
		return encodeSequence(fieldTypes, elems)
	default:
		return nil, &TypeMismatchError{Expected: t.Canonical(), Got: "unsupported descriptor"}
	}
}

// encodeSequence encodes an ordered value list with the head/tail layout: static members are
// encoded in place in the head, dynamic members contribute an offset word to the head and their
// encoding to the tail. Offsets are byte distances from the start of this sequence's region, so
// the indirection nests correctly for dynamic members containing further dynamic members.
func encodeSequence(memberTypes []*Type, values []interface{}) ([]byte, error) {
	// The head width is fixed by the types alone, so tail offsets are known up front.
	var headSize uint64
	for _, t := range memberTypes {
		headSize += t.staticSize()
	}

	head := make([]byte, 0, headSize)
	var tail []byte
	for i, t := range memberTypes {
		encoded, err := encodeValue(t, values[i])
		if err != nil {
			return nil, err
		}
		if t.IsDynamic() {
			head = append(head, lengthWord(int(headSize)+len(tail))...)
			tail = append(tail, encoded...)
		} else {
			head = append(head, encoded...)
		}
	}
	return append(head, tail...), nil
}

// encodeLengthPrefixed encodes dynamic bytes content: a length word followed by the content
// right-padded to a word boundary.
func encodeLengthPrefixed(b []byte) []byte {
	padded := (len(b) + wordSize - 1) / wordSize * wordSize
	out := make([]byte, wordSize+padded)
	copy(out, lengthWord(len(b)))
	copy(out[wordSize:], b)
	return out
}

// lengthWord encodes a non-negative count or offset as a single word.
func lengthWord(n int) []byte {
	word := uint256.NewInt(uint64(n)).Bytes32()
	return word[:]
}

// encodeUint range-checks and encodes an unsigned integer value into a right-aligned word.
func encodeUint(t *Type, value interface{}) ([]byte, error) {
	v, ok := toBigInt(value)
	if !ok {
		return nil, mismatch(t, value)
	}
	if v.Sign() < 0 || v.BitLen() > t.Bits {
		return nil, &TypeMismatchError{Expected: t.Canonical(), Got: fmt.Sprintf("out-of-range value %s", v)}
	}
	word, _ := uint256.FromBig(v)
	out := word.Bytes32()
	return out[:], nil
}

// encodeInt range-checks and encodes a signed integer value into a sign-extended two's-complement
// word.
func encodeInt(t *Type, value interface{}) ([]byte, error) {
	v, ok := toBigInt(value)
	if !ok {
		return nil, mismatch(t, value)
	}
	// The representable range of intN is [-2^(N-1), 2^(N-1)).
	bound := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits-1))
	if v.Cmp(new(big.Int).Neg(bound)) < 0 || v.Cmp(bound) >= 0 {
		return nil, &TypeMismatchError{Expected: t.Canonical(), Got: fmt.Sprintf("out-of-range value %s", v)}
	}
	twos := v
	if v.Sign() < 0 {
		// Negative values become 2^256 + v, which sign-extends across the full word.
		twos = new(big.Int).Add(twosComplementModulus, v)
	}
	word, _ := uint256.FromBig(twos)
	out := word.Bytes32()
	return out[:], nil
}

// twosComplementModulus is 2^256, the modulus of word-width two's-complement arithmetic.
var twosComplementModulus = new(big.Int).Lsh(big.NewInt(1), 256)

// mismatch constructs a TypeMismatchError describing the offending runtime value.
func mismatch(t *Type, value interface{}) *TypeMismatchError {
	return &TypeMismatchError{Expected: t.Canonical(), Got: fmt.Sprintf("%T", value)}
}

// toBigInt widens any supported integer representation to a big integer.
func toBigInt(value interface{}) (*big.Int, bool) {
	switch v := value.(type) {
	case *big.Int:
		return v, true
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	default:
		return nil, false
	}
}

// toBytes accepts the supported byte-sequence representations.
func toBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case types.Bytes:
		return v, true
	case types.Hash:
		return v.Bytes(), true
	default:
		return nil, false
	}
}

// toSequence accepts any slice or array value and flattens it to []interface{}. Values already in
// that shape pass through unchanged.
func toSequence(value interface{}) ([]interface{}, bool) {
	if direct, ok := value.([]interface{}); ok {
		return direct, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// Byte slices are scalar content, not sequences.
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// repeatType returns a type list of n references to the same element type, for encoding
// homogeneous sequences through the generic head/tail path.
func repeatType(t *Type, n int) []*Type {
	out := make([]*Type, n)
	for i := range out {
		out[i] = t
	}
	return out
}
