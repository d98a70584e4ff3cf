package abi

import (
	"github.com/corebc/go-corebc/crypto"
	"github.com/corebc/go-corebc/types"
)

// SelectorLength is the byte length of a function selector: the leading prefix of the signature's
// SHA3-256 digest.
const SelectorLength = 4

// StateMutability describes a function's interaction with chain state.
type StateMutability string

const (
	// Pure functions neither read nor modify state.
	Pure StateMutability = "pure"
	// View functions read but do not modify state.
	View StateMutability = "view"
	// NonPayable functions modify state but reject value transfers.
	NonPayable StateMutability = "nonpayable"
	// Payable functions modify state and accept value transfers.
	Payable StateMutability = "payable"
)

// Method describes one callable contract function. The canonical signature and its selector are
// computed once at construction and cached; they are never recomputed per call.
type Method struct {
	// Name is the function name.
	Name string

	// Inputs are the declared parameters in order.
	Inputs Arguments

	// Outputs are the declared return values in order.
	Outputs Arguments

	// StateMutability describes whether the function reads or writes chain state.
	StateMutability StateMutability

	// Sig is the canonical signature, e.g. "transfer(address,uint256)".
	Sig string

	// ID is the 4-byte selector: the leading bytes of SHA3-256(Sig).
	ID [SelectorLength]byte
}

// NewMethod constructs a method descriptor and derives its cached signature and selector.
func NewMethod(name string, inputs Arguments, outputs Arguments, mutability StateMutability) *Method {
	sig := name + "(" + inputs.Canonical() + ")"
	m := &Method{
		Name:            name,
		Inputs:          inputs,
		Outputs:         outputs,
		StateMutability: mutability,
		Sig:             sig,
	}
	copy(m.ID[:], crypto.SHA3([]byte(sig))[:SelectorLength])
	return m
}

// Constant reports whether calling the method cannot modify state, making it eligible for
// read-only dispatch.
func (m *Method) Constant() bool {
	return m.StateMutability == Pure || m.StateMutability == View
}

// Event describes one contract event. Topic zero of a non-anonymous event's logs is the cached
// 32-byte ID: the SHA3-256 digest of the canonical signature.
type Event struct {
	// Name is the event name.
	Name string

	// Inputs are the declared parameters in order, each flagged indexed or not.
	Inputs Arguments

	// Anonymous events omit their selector from topic zero.
	Anonymous bool

	// Sig is the canonical signature, e.g. "Transfer(address,address,uint256)".
	Sig string

	// ID is the 32-byte event selector.
	ID types.Hash
}

// NewEvent constructs an event descriptor and derives its cached signature and selector.
func NewEvent(name string, inputs Arguments, anonymous bool) *Event {
	sig := name + "(" + inputs.Canonical() + ")"
	return &Event{
		Name:      name,
		Inputs:    inputs,
		Anonymous: anonymous,
		Sig:       sig,
		ID:        crypto.SHA3Hash([]byte(sig)),
	}
}

// Indexed returns the event's indexed parameters in order.
func (e *Event) Indexed() Arguments {
	var out Arguments
	for _, arg := range e.Inputs {
		if arg.Indexed {
			out = append(out, arg)
		}
	}
	return out
}
