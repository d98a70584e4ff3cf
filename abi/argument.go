package abi

import (
	"github.com/pkg/errors"
)

// Argument is one named, typed slot of a method or event parameter list.
type Argument struct {
	// Name is the parameter name from the ABI document. May be empty.
	Name string

	// Type is the parameter's descriptor.
	Type *Type

	// Indexed is set for event parameters carried in log topics rather than log data.
	Indexed bool
}

// Arguments is an ordered parameter list.
type Arguments []Argument

// TupleType returns the argument list viewed as an unnamed tuple descriptor, which is exactly how
// a parameter list is laid out on the wire.
func (args Arguments) TupleType() *Type {
	fields := make([]Field, len(args))
	for i, arg := range args {
		fields[i] = Field{Name: arg.Name, Type: arg.Type}
	}
	return NewTupleType(fields)
}

// NonIndexed returns the subset of arguments not carried in topics, preserving their original
// relative order.
func (args Arguments) NonIndexed() Arguments {
	var out Arguments
	for _, arg := range args {
		if !arg.Indexed {
			out = append(out, arg)
		}
	}
	return out
}

// Pack validates the argument values against their descriptors and encodes them with the
// head/tail tuple layout. A wrong argument count fails with ArgumentCountError; a shape mismatch
// fails with ArgumentTypeMismatchError carrying the offending index. Both are raised before any
// network access happens.
func (args Arguments) Pack(values ...interface{}) ([]byte, error) {
	if len(values) != len(args) {
		return nil, &ArgumentCountError{Expected: len(args), Got: len(values)}
	}

	// Encode each argument up front so shape errors can be attributed to their index, then
	// assemble the head and tail from the per-argument encodings.
	encoded := make([][]byte, len(args))
	var headSize uint64
	for i, arg := range args {
		enc, err := encodeValue(arg.Type, values[i])
		if err != nil {
			var tm *TypeMismatchError
			if errors.As(err, &tm) {
				return nil, &ArgumentTypeMismatchError{Index: i, Expected: tm.Expected, Got: tm.Got}
			}
			return nil, err
		}
		encoded[i] = enc
		headSize += arg.Type.staticSize()
	}

	head := make([]byte, 0, headSize)
	var tail []byte
	for i, arg := range args {
		if arg.Type.IsDynamic() {
			head = append(head, lengthWord(int(headSize)+len(tail))...)
			tail = append(tail, encoded[i]...)
		} else {
			head = append(head, encoded[i]...)
		}
	}
	return append(head, tail...), nil
}

// Unpack decodes an encoded parameter tuple back into its ordered values.
func (args Arguments) Unpack(data []byte) ([]interface{}, error) {
	memberTypes := make([]*Type, len(args))
	for i, arg := range args {
		memberTypes[i] = arg.Type
	}
	return decodeSequence(memberTypes, data)
}

// Canonical returns the comma-separated canonical names of the argument types, as used inside a
// signature's parentheses.
func (args Arguments) Canonical() string {
	sig := ""
	for i, arg := range args {
		if i > 0 {
			sig += ","
		}
		sig += arg.Type.Canonical()
	}
	return sig
}
