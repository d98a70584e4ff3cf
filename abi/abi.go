// Package abi implements the contract application binary interface of Core networks: the
// recursive type grammar, the static and head/tail dynamic encoding layouts, SHA3-256 selector
// derivation, and parsing of JSON interface documents into immutable descriptors.
package abi

import (
	"encoding/json"
	"strings"

	"github.com/corebc/go-corebc/types"
)

// ABI is the immutable, parsed description of a contract's callable surface. It is constructed
// once from a JSON document and shared read-only by every call built against it. Overloaded
// functions share a name and are disambiguated by their full canonical signature.
type ABI struct {
	// Constructor is the contract's constructor descriptor, if declared.
	Constructor *Method

	// Methods maps canonical signatures to function descriptors.
	Methods map[string]*Method

	// Events maps canonical signatures to event descriptors.
	Events map[string]*Event

	// methodsByName groups function descriptors by bare name, in document order.
	methodsByName map[string][]*Method

	// eventsByName groups event descriptors by bare name, in document order.
	eventsByName map[string][]*Event
}

// entryJSON is one entry of a JSON ABI document.
type entryJSON struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Inputs          []paramJSON `json:"inputs"`
	Outputs         []paramJSON `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
	Anonymous       bool       `json:"anonymous"`
}

// paramJSON is one parameter of a JSON ABI entry.
type paramJSON struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Components []paramJSON `json:"components"`
	Indexed    bool        `json:"indexed"`
}

// ParseJSON parses a JSON ABI document into descriptors. A malformed document fails here, at
// construction, never later during encoding or dispatch.
func ParseJSON(data []byte) (*ABI, error) {
	var entries []entryJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ParseError{Input: "abi document", Reason: err.Error()}
	}

	parsed := &ABI{
		Methods:       make(map[string]*Method),
		Events:        make(map[string]*Event),
		methodsByName: make(map[string][]*Method),
		eventsByName:  make(map[string][]*Event),
	}

	for _, entry := range entries {
		switch entry.Type {
		case "function", "":
			inputs, err := parseParams(entry.Inputs)
			if err != nil {
				return nil, err
			}
			outputs, err := parseParams(entry.Outputs)
			if err != nil {
				return nil, err
			}
			method := NewMethod(entry.Name, inputs, outputs, mutabilityFromJSON(entry.StateMutability))
			parsed.Methods[method.Sig] = method
			parsed.methodsByName[method.Name] = append(parsed.methodsByName[method.Name], method)
		case "constructor":
			inputs, err := parseParams(entry.Inputs)
			if err != nil {
				return nil, err
			}
			parsed.Constructor = NewMethod("", inputs, nil, mutabilityFromJSON(entry.StateMutability))
		case "event":
			inputs, err := parseParams(entry.Inputs)
			if err != nil {
				return nil, err
			}
			event := NewEvent(entry.Name, inputs, entry.Anonymous)
			parsed.Events[event.Sig] = event
			parsed.eventsByName[event.Name] = append(parsed.eventsByName[event.Name], event)
		case "fallback", "receive", "error":
			// These entries carry no callable surface this library exposes.
		default:
			return nil, &ParseError{Input: entry.Type, Reason: "unknown abi entry type"}
		}
	}
	return parsed, nil
}

// parseParams converts a JSON parameter list into typed arguments.
func parseParams(params []paramJSON) (Arguments, error) {
	var args Arguments
	for _, p := range params {
		t, err := typeFromJSON(p.Type, p.Components)
		if err != nil {
			return nil, err
		}
		args = append(args, Argument{Name: p.Name, Type: t, Indexed: p.Indexed})
	}
	return args, nil
}

// typeFromJSON resolves a JSON type string, expanding "tuple" bases from their component list
// before applying any array suffixes.
func typeFromJSON(typeStr string, components []paramJSON) (*Type, error) {
	base, suffixes, err := splitArraySuffixes(typeStr)
	if err != nil {
		return nil, err
	}

	var t *Type
	if base == "tuple" {
		fields := make([]Field, len(components))
		for i, comp := range components {
			ct, err := typeFromJSON(comp.Type, comp.Components)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: comp.Name, Type: ct}
		}
		t = NewTupleType(fields)
	} else {
		t, err = parseBaseType(base)
		if err != nil {
			return nil, err
		}
	}

	for _, suffix := range suffixes {
		if suffix == -1 {
			t = NewSliceType(t)
		} else {
			t = NewArrayType(t, suffix)
		}
	}
	return t, nil
}

// mutabilityFromJSON normalizes the document's state mutability string, defaulting to nonpayable
// for documents predating the field.
func mutabilityFromJSON(s string) StateMutability {
	switch StateMutability(strings.ToLower(s)) {
	case Pure:
		return Pure
	case View:
		return View
	case Payable:
		return Payable
	default:
		return NonPayable
	}
}

// MethodBySig returns the method with the given canonical signature, or nil.
func (a *ABI) MethodBySig(sig string) *Method {
	return a.Methods[sig]
}

// MethodsByName returns every overload sharing the given bare name, in document order.
func (a *ABI) MethodsByName(name string) []*Method {
	return a.methodsByName[name]
}

// MethodByID returns the method whose selector matches the given call data prefix, or nil.
func (a *ABI) MethodByID(id [SelectorLength]byte) *Method {
	for _, m := range a.Methods {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// EventBySig returns the event with the given canonical signature, or nil.
func (a *ABI) EventBySig(sig string) *Event {
	return a.Events[sig]
}

// EventsByName returns every event sharing the given bare name, in document order.
func (a *ABI) EventsByName(name string) []*Event {
	return a.eventsByName[name]
}

// EventByID returns the non-anonymous event whose 32-byte selector matches topic zero, or nil.
func (a *ABI) EventByID(id types.Hash) *Event {
	for _, e := range a.Events {
		if !e.Anonymous && e.ID == id {
			return e
		}
	}
	return nil
}
