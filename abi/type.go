package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the shape class of a Type.
type Kind uint8

const (
	// KindUint is an unsigned fixed-width integer (uint8..uint256).
	KindUint Kind = iota
	// KindInt is a signed fixed-width integer (int8..int256).
	KindInt
	// KindBool is a boolean.
	KindBool
	// KindAddress is a 22-byte ICAN address.
	KindAddress
	// KindFixedBytes is a fixed-size byte array (bytes1..bytes32).
	KindFixedBytes
	// KindBytes is a dynamically sized byte array.
	KindBytes
	// KindString is a dynamically sized UTF-8 string.
	KindString
	// KindArray is a fixed-size array of a homogeneous element type.
	KindArray
	// KindSlice is a dynamically sized array of a homogeneous element type.
	KindSlice
	// KindTuple is an ordered sequence of named, heterogeneous fields.
	KindTuple
)

// wordSize is the width of an encoded word: every static scalar occupies exactly one word.
const wordSize = 32

// Field is one named component of a tuple type.
type Field struct {
	// Name is the component name from the ABI document. May be empty.
	Name string

	// Type is the component's type.
	Type *Type
}

// Type is the recursive descriptor of an encodable value's shape. A Type is immutable after
// construction; its canonical name and dynamicness are computed once and cached.
type Type struct {
	// Kind is the shape class.
	Kind Kind

	// Bits is the width of integer kinds, in bits (8..256, multiple of 8).
	Bits int

	// Size is the byte length of fixed-bytes kinds or the element count of fixed arrays.
	Size int

	// Elem is the element type of array and slice kinds.
	Elem *Type

	// Fields are the components of tuple kinds.
	Fields []Field

	// canonical is the cached canonical type name.
	canonical string

	// dynamic caches whether the encoded width of this type depends on its value.
	dynamic bool
}

// finalize computes and caches the canonical name and dynamicness. Called exactly once when a
// Type is constructed.
func (t *Type) finalize() {
	switch t.Kind {
	case KindUint:
		t.canonical = "uint" + strconv.Itoa(t.Bits)
	case KindInt:
		t.canonical = "int" + strconv.Itoa(t.Bits)
	case KindBool:
		t.canonical = "bool"
	case KindAddress:
		t.canonical = "address"
	case KindFixedBytes:
		t.canonical = "bytes" + strconv.Itoa(t.Size)
	case KindBytes:
		t.canonical = "bytes"
		t.dynamic = true
	case KindString:
		t.canonical = "string"
		t.dynamic = true
	case KindArray:
		t.canonical = t.Elem.Canonical() + "[" + strconv.Itoa(t.Size) + "]"
		t.dynamic = t.Elem.IsDynamic()
	case KindSlice:
		t.canonical = t.Elem.Canonical() + "[]"
		t.dynamic = true
	case KindTuple:
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Type.Canonical()
			if f.Type.IsDynamic() {
				t.dynamic = true
			}
		}
		t.canonical = "(" + strings.Join(names, ",") + ")"
	}
}

// Canonical returns the canonical type name used in signatures, e.g. "uint256" or
// "(address,uint256[])".
func (t *Type) Canonical() string {
	return t.canonical
}

// IsDynamic reports whether the type's encoded width depends on its value: dynamic bytes/strings,
// dynamic arrays, and any array or tuple containing one.
func (t *Type) IsDynamic() bool {
	return t.dynamic
}

// String returns the canonical type name.
func (t *Type) String() string {
	return t.canonical
}

// staticSize returns the encoded width of a static instance of this type: one word for scalars
// and the member sum for static arrays and tuples. A dynamic type occupies one offset word in its
// enclosing head instead.
func (t *Type) staticSize() uint64 {
	if t.dynamic {
		return wordSize
	}
	switch t.Kind {
	case KindArray:
		return uint64(t.Size) * t.Elem.staticSize()
	case KindTuple:
		var sum uint64
		for _, f := range t.Fields {
			sum += f.Type.staticSize()
		}
		return sum
	default:
		return wordSize
	}
}

// NewTupleType constructs a tuple type from an ordered field list.
func NewTupleType(fields []Field) *Type {
	t := &Type{Kind: KindTuple, Fields: fields}
	t.finalize()
	return t
}

// NewSliceType constructs a dynamic array type over the given element.
func NewSliceType(elem *Type) *Type {
	t := &Type{Kind: KindSlice, Elem: elem}
	t.finalize()
	return t
}

// NewArrayType constructs a fixed-size array type over the given element.
func NewArrayType(elem *Type, size int) *Type {
	t := &Type{Kind: KindArray, Elem: elem, Size: size}
	t.finalize()
	return t
}

// ParseType parses a type expression such as "uint256", "bytes32[4]", "address[]" or
// "(uint64,(bool,string))[]" into its descriptor. Malformed expressions fail with a ParseError.
func ParseType(expr string) (*Type, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &ParseError{Input: expr, Reason: "empty type expression"}
	}

	// Split off trailing array suffixes; everything before the first unbalanced '[' is the base.
	base, suffixes, err := splitArraySuffixes(expr)
	if err != nil {
		return nil, err
	}

	t, err := parseBaseType(base)
	if err != nil {
		return nil, err
	}

	// Apply array suffixes innermost-first; "uint8[2][]" is a dynamic array of [2]uint8.
	for _, suffix := range suffixes {
		if suffix == -1 {
			t = NewSliceType(t)
		} else {
			t = NewArrayType(t, suffix)
		}
	}
	return t, nil
}

// splitArraySuffixes splits "base[2][]" into "base" and its ordered suffix list, where -1 denotes
// a dynamic suffix.
func splitArraySuffixes(expr string) (string, []int, error) {
	base := expr
	var suffixes []int
	for strings.HasSuffix(base, "]") {
		open := strings.LastIndex(base, "[")
		if open < 0 {
			return "", nil, &ParseError{Input: expr, Reason: "unbalanced brackets"}
		}
		// Tuples carry parentheses; a '[' inside them belongs to a component, not a suffix.
		if strings.Count(base[open:], ")") > 0 {
			break
		}
		inner := base[open+1 : len(base)-1]
		if inner == "" {
			suffixes = append([]int{-1}, suffixes...)
		} else {
			n, err := strconv.Atoi(inner)
			if err != nil || n <= 0 {
				return "", nil, &ParseError{Input: expr, Reason: fmt.Sprintf("invalid array size %q", inner)}
			}
			suffixes = append([]int{n}, suffixes...)
		}
		base = base[:open]
	}
	return base, suffixes, nil
}

// parseBaseType parses a non-array type expression.
func parseBaseType(base string) (*Type, error) {
	// Tuple expressions are parenthesized comma-separated component lists.
	if strings.HasPrefix(base, "(") {
		if !strings.HasSuffix(base, ")") {
			return nil, &ParseError{Input: base, Reason: "unbalanced parentheses"}
		}
		components, err := splitTupleComponents(base[1 : len(base)-1])
		if err != nil {
			return nil, err
		}
		fields := make([]Field, len(components))
		for i, comp := range components {
			ct, err := ParseType(comp)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Type: ct}
		}
		return NewTupleType(fields), nil
	}

	var t Type
	switch {
	case base == "bool":
		t = Type{Kind: KindBool}
	case base == "address":
		t = Type{Kind: KindAddress}
	case base == "string":
		t = Type{Kind: KindString}
	case base == "bytes":
		t = Type{Kind: KindBytes}
	case base == "uint" || base == "int":
		// Unsized integers canonicalize to their maximum width.
		kind := KindUint
		if base == "int" {
			kind = KindInt
		}
		t = Type{Kind: kind, Bits: 256}
	case strings.HasPrefix(base, "uint") || strings.HasPrefix(base, "int"):
		kind, rest := KindUint, strings.TrimPrefix(base, "uint")
		if strings.HasPrefix(base, "int") {
			kind, rest = KindInt, strings.TrimPrefix(base, "int")
		}
		bits, err := strconv.Atoi(rest)
		if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
			return nil, &ParseError{Input: base, Reason: "invalid integer width"}
		}
		t = Type{Kind: kind, Bits: bits}
	case strings.HasPrefix(base, "bytes"):
		size, err := strconv.Atoi(strings.TrimPrefix(base, "bytes"))
		if err != nil || size < 1 || size > 32 {
			return nil, &ParseError{Input: base, Reason: "invalid fixed bytes size"}
		}
		t = Type{Kind: KindFixedBytes, Size: size}
	default:
		return nil, &ParseError{Input: base, Reason: "unknown type"}
	}
	t.finalize()
	return &t, nil
}

// splitTupleComponents splits a tuple body on top-level commas, respecting nested parentheses and
// brackets.
func splitTupleComponents(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	var components []string
	depth := 0
	start := 0
	for i, ch := range body {
		switch ch {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, &ParseError{Input: body, Reason: "unbalanced parentheses"}
			}
		case ',':
			if depth == 0 {
				components = append(components, body[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, &ParseError{Input: body, Reason: "unbalanced parentheses"}
	}
	components = append(components, body[start:])
	return components, nil
}
