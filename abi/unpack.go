package abi

import (
	"math"
	"math/big"

	"github.com/corebc/go-corebc/types"
	"github.com/holiman/uint256"
)

// Decode decodes a single value from data against its descriptor. Every offset and length implied
// by the layout is validated against the buffer bounds; a truncated or corrupted buffer fails
// with a BufferUnderrunError rather than reading out of bounds or returning a plausible wrong
// value.
//
// Decoded values use the canonical Go representations: *big.Int for integers, bool, types.Address,
// []byte for fixed and dynamic bytes, string, and []interface{} for arrays, slices and tuples.
func Decode(t *Type, data []byte) (interface{}, error) {
	return decodeValue(t, data)
}

// decodeValue decodes the value whose encoding starts at region[0].
func decodeValue(t *Type, region []byte) (interface{}, error) {
	switch t.Kind {
	case KindUint:
		word, err := readWord(region, 0)
		if err != nil {
			return nil, err
		}
		v := word.ToBig()
		if t.Bits < 256 {
			v.And(v, bitMask(t.Bits))
		}
		return v, nil
	case KindInt:
		word, err := readWord(region, 0)
		if err != nil {
			return nil, err
		}
		return decodeTwosComplement(word, t.Bits), nil
	case KindBool:
		word, err := readWord(region, 0)
		if err != nil {
			return nil, err
		}
		switch {
		case word.IsZero():
			return false, nil
		case word.Eq(uint256.NewInt(1)):
			return true, nil
		default:
			return nil, &TypeMismatchError{Expected: t.Canonical(), Got: "non-boolean word"}
		}
	case KindAddress:
		if err := need(region, 0, wordSize); err != nil {
			return nil, err
		}
		return types.BytesToAddress(region[wordSize-types.AddressLength : wordSize]), nil
	case KindFixedBytes:
		if err := need(region, 0, wordSize); err != nil {
			return nil, err
		}
		out := make([]byte, t.Size)
		copy(out, region[:t.Size])
		return out, nil
	case KindBytes:
		content, err := readLengthPrefixed(region)
		if err != nil {
			return nil, err
		}
		return content, nil
	case KindString:
		content, err := readLengthPrefixed(region)
		if err != nil {
			return nil, err
		}
		return string(content), nil
	case KindSlice:
		count, err := readCount(region)
		if err != nil {
			return nil, err
		}
		return decodeSequence(repeatType(t.Elem, count), region[wordSize:])
	case KindArray:
		return decodeSequence(repeatType(t.Elem, t.Size), region)
	case KindTuple:
		fieldTypes := make([]*Type, len(t.Fields))
		for i, f := range t.Fields {
			fieldTypes[i] = f.Type
		}
		return decodeSequence(fieldTypes, region)
	default:
		return nil, &TypeMismatchError{Expected: t.Canonical(), Got: "unsupported descriptor"}
	}
}

// decodeSequence walks a head/tail region: static members are decoded in place, dynamic members
// through their offset word. Offsets are validated to land inside the region before any nested
// decode dereferences them.
func decodeSequence(memberTypes []*Type, region []byte) ([]interface{}, error) {
	out := make([]interface{}, len(memberTypes))
	var pos uint64
	for i, t := range memberTypes {
		if t.IsDynamic() {
			word, err := readWord(region, pos)
			if err != nil {
				return nil, err
			}
			offset, ok := wordToOffset(word)
			if !ok || offset > uint64(len(region)) {
				return nil, &BufferUnderrunError{Offset: offset, Need: wordSize, Have: uint64(len(region))}
			}
			value, err := decodeValue(t, region[offset:])
			if err != nil {
				return nil, err
			}
			out[i] = value
		} else {
			if err := need(region, pos, t.staticSize()); err != nil {
				return nil, err
			}
			value, err := decodeValue(t, region[pos:])
			if err != nil {
				return nil, err
			}
			out[i] = value
		}
		pos += t.staticSize()
	}
	return out, nil
}

// readLengthPrefixed reads a dynamic bytes payload: a length word followed by the content.
func readLengthPrefixed(region []byte) ([]byte, error) {
	count, err := readCount(region)
	if err != nil {
		return nil, err
	}
	if err := need(region, wordSize, uint64(count)); err != nil {
		return nil, err
	}
	out := make([]byte, count)
	copy(out, region[wordSize:wordSize+uint64(count)])
	return out, nil
}

// readCount reads a length word and bounds it against the remaining region so that a corrupted
// length can never trigger an oversized allocation or out-of-bounds read.
func readCount(region []byte) (int, error) {
	word, err := readWord(region, 0)
	if err != nil {
		return 0, err
	}
	count, ok := wordToOffset(word)
	if !ok || count > uint64(len(region)) {
		return 0, &BufferUnderrunError{Offset: wordSize, Need: count, Have: uint64(len(region))}
	}
	return int(count), nil
}

// readWord reads one 32-byte word at the given position.
func readWord(region []byte, pos uint64) (*uint256.Int, error) {
	if err := need(region, pos, wordSize); err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(region[pos : pos+wordSize]), nil
}

// need verifies that n bytes are available at pos.
func need(region []byte, pos uint64, n uint64) error {
	if pos+n > uint64(len(region)) || pos+n < pos {
		return &BufferUnderrunError{Offset: pos, Need: n, Have: uint64(len(region))}
	}
	return nil
}

// wordToOffset converts an offset/length word to a uint64, rejecting values that could not
// possibly index a real buffer.
func wordToOffset(word *uint256.Int) (uint64, bool) {
	if !word.IsUint64() || word.Uint64() > math.MaxInt64 {
		return 0, false
	}
	return word.Uint64(), true
}

// decodeTwosComplement interprets a word as an N-bit two's-complement signed integer.
func decodeTwosComplement(word *uint256.Int, bits int) *big.Int {
	v := word.ToBig()
	if bits < 256 {
		v.And(v, bitMask(bits))
	}
	// Values with the sign bit set wrap into the negative range.
	if v.Bit(bits-1) == 1 {
		modulus := new(big.Int).Lsh(big.NewInt(1), uint(bits))
		v.Sub(v, modulus)
	}
	return v
}

// bitMask returns a mask of the low n bits.
func bitMask(n int) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(n))
	return mask.Sub(mask, big.NewInt(1))
}
