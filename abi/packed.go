package abi

import (
	"fmt"

	"github.com/corebc/go-corebc/types"
)

// PackedError indicates a type cannot be represented in packed mode.
type PackedError struct {
	// Type is the canonical name of the unsupported type.
	Type string
}

// Error implements the error interface.
func (e *PackedError) Error() string {
	return fmt.Sprintf("abi: type %s cannot be encoded in packed mode", e.Type)
}

// EncodePacked encodes values in the non-standard packed mode: scalars occupy their natural width
// with no padding, dynamic bytes and strings are appended verbatim without length prefixes, and
// array elements are padded to full words. Tuples and nested dynamic arrays are ambiguous in this
// mode and are rejected.
//
// Packed encodings are not self-describing and cannot be decoded; they exist to reproduce the
// digest preimages some contracts build from concatenated values.
func EncodePacked(memberTypes []*Type, values []interface{}) ([]byte, error) {
	if len(memberTypes) != len(values) {
		return nil, &ArgumentCountError{Expected: len(memberTypes), Got: len(values)}
	}
	for _, t := range memberTypes {
		if err := checkPackable(t); err != nil {
			return nil, err
		}
	}

	var out []byte
	for i, t := range memberTypes {
		encoded, err := encodePackedValue(t, values[i], false)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}
	return out, nil
}

// checkPackable rejects types that have no unambiguous packed representation.
func checkPackable(t *Type) error {
	switch t.Kind {
	case KindTuple:
		return &PackedError{Type: t.Canonical()}
	case KindArray, KindSlice:
		// Array elements are padded words, so only static element types are representable.
		if t.Elem.IsDynamic() || t.Elem.Kind == KindArray || t.Elem.Kind == KindSlice {
			return &PackedError{Type: t.Canonical()}
		}
		return checkPackable(t.Elem)
	default:
		return nil
	}
}

// encodePackedValue encodes one value in packed mode. Inside arrays every element is padded to a
// full word regardless of its natural width.
func encodePackedValue(t *Type, value interface{}, inArray bool) ([]byte, error) {
	switch t.Kind {
	case KindUint, KindInt:
		word, err := encodeValue(t, value)
		if err != nil {
			return nil, err
		}
		if inArray {
			return word, nil
		}
		// Scalars keep only their natural byte width.
		return word[wordSize-t.Bits/8:], nil
	case KindBool:
		word, err := encodeValue(t, value)
		if err != nil {
			return nil, err
		}
		if inArray {
			return word, nil
		}
		return word[wordSize-1:], nil
	case KindAddress:
		word, err := encodeValue(t, value)
		if err != nil {
			return nil, err
		}
		if inArray {
			return word, nil
		}
		return word[wordSize-types.AddressLength:], nil
	case KindFixedBytes:
		word, err := encodeValue(t, value)
		if err != nil {
			return nil, err
		}
		if inArray {
			return word, nil
		}
		return word[:t.Size], nil
	case KindBytes:
		b, ok := toBytes(value)
		if !ok {
			return nil, mismatch(t, value)
		}
		return b, nil
	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, mismatch(t, value)
		}
		return []byte(s), nil
	case KindArray, KindSlice:
		elems, ok := toSequence(value)
		if !ok {
			return nil, mismatch(t, value)
		}
		if t.Kind == KindArray && len(elems) != t.Size {
			return nil, mismatch(t, value)
		}
		var out []byte
		for _, elem := range elems {
			encoded, err := encodePackedValue(t.Elem, elem, true)
			if err != nil {
				return nil, err
			}
			out = append(out, encoded...)
		}
		return out, nil
	default:
		return nil, &PackedError{Type: t.Canonical()}
	}
}
