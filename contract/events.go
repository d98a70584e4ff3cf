package contract

import (
	"context"
	"strings"

	"github.com/corebc/go-corebc/abi"
	"github.com/corebc/go-corebc/crypto"
	"github.com/corebc/go-corebc/types"
)

// DecodedEvent pairs a raw log with its decoded arguments. When a log in a batch fails to decode,
// Err carries the per-log failure and Args is nil; the rest of the batch is unaffected.
type DecodedEvent struct {
	// Event is the canonical signature of the decoded event.
	Event string

	// Log is the raw log as returned by the node.
	Log types.Log

	// Args are the decoded parameters in declaration order.
	Args []interface{}

	// Err is the per-log decode failure, if any.
	Err error
}

// resolveEvent locates an event by full canonical signature or unique bare name.
func (c *Contract) resolveEvent(event string) (*abi.Event, error) {
	if strings.Contains(event, "(") {
		e := c.abi.EventBySig(event)
		if e == nil {
			return nil, &MethodNotFoundError{Name: event, ArgCount: -1}
		}
		return e, nil
	}
	matches := c.abi.EventsByName(event)
	switch len(matches) {
	case 0:
		return nil, &MethodNotFoundError{Name: event, ArgCount: -1}
	case 1:
		return matches[0], nil
	default:
		candidates := make([]string, len(matches))
		for i, e := range matches {
			candidates[i] = e.Sig
		}
		return nil, &AmbiguousOverloadError{Name: event, Candidates: candidates}
	}
}

// FilterTopics builds the topic slots of a log filter for the given event. Constraints correspond
// to the event's indexed parameters in order; a nil constraint leaves its slot as a wildcard, a
// slice of values matches any of them, and omitted trailing constraints are wildcards. For
// non-anonymous events, topic zero is pinned to the event's selector.
func (c *Contract) FilterTopics(event string, constraints ...interface{}) ([][]types.Hash, error) {
	e, err := c.resolveEvent(event)
	if err != nil {
		return nil, err
	}
	indexed := e.Indexed()
	if len(constraints) > len(indexed) {
		return nil, &ConstraintCountError{Event: e.Sig, Indexed: len(indexed), Got: len(constraints)}
	}

	var topics [][]types.Hash
	if !e.Anonymous {
		topics = append(topics, []types.Hash{e.ID})
	}
	for i, constraint := range constraints {
		if constraint == nil {
			topics = append(topics, nil)
			continue
		}
		values, ok := constraint.([]interface{})
		if !ok {
			values = []interface{}{constraint}
		}
		slot := make([]types.Hash, len(values))
		for k, value := range values {
			topic, err := topicValue(indexed[i].Type, value)
			if err != nil {
				return nil, err
			}
			slot[k] = topic
		}
		topics = append(topics, slot)
	}
	return topics, nil
}

// topicValue converts one constraint value into its topic word. Values of dynamic or composite
// types do not fit a word; their encoding is hashed with SHA3-256, matching how nodes index them.
func topicValue(t *abi.Type, value interface{}) (types.Hash, error) {
	switch t.Kind {
	case abi.KindString:
		s, ok := value.(string)
		if !ok {
			return types.Hash{}, &abi.TypeMismatchError{Expected: t.Canonical(), Got: "non-string constraint"}
		}
		return crypto.SHA3Hash([]byte(s)), nil
	case abi.KindBytes:
		b, ok := value.([]byte)
		if !ok {
			return types.Hash{}, &abi.TypeMismatchError{Expected: t.Canonical(), Got: "non-bytes constraint"}
		}
		return crypto.SHA3Hash(b), nil
	case abi.KindArray, abi.KindSlice, abi.KindTuple:
		encoded, err := abi.Encode(t, value)
		if err != nil {
			return types.Hash{}, err
		}
		return crypto.SHA3Hash(encoded), nil
	default:
		encoded, err := abi.Encode(t, value)
		if err != nil {
			return types.Hash{}, err
		}
		return types.BytesToHash(encoded), nil
	}
}

// UnpackLog decodes one log against the named event: indexed parameters from topics in order,
// non-indexed parameters from the data payload, reassembled in declaration order. Indexed
// parameters of dynamic or composite types are only present as their hash and yield types.Hash.
func (c *Contract) UnpackLog(event string, log types.Log) ([]interface{}, error) {
	e, err := c.resolveEvent(event)
	if err != nil {
		return nil, err
	}
	return unpackLog(e, log)
}

// unpackLog is the descriptor-level decode shared by UnpackLog and FilterEvents.
func unpackLog(e *abi.Event, log types.Log) ([]interface{}, error) {
	indexed := e.Indexed()
	expectedTopics := len(indexed)
	topicOffset := 0
	if !e.Anonymous {
		expectedTopics++
		topicOffset = 1
	}
	if len(log.Topics) != expectedTopics {
		return nil, &TopicCountMismatchError{Event: e.Sig, Expected: expectedTopics, Got: len(log.Topics)}
	}
	if !e.Anonymous && log.Topics[0] != e.ID {
		return nil, &LogDataDecodeError{Event: e.Sig, Err: &abi.TypeMismatchError{Expected: e.Sig, Got: "mismatched topic zero"}}
	}

	// Decode the data payload as the tuple of non-indexed parameters.
	dataValues, err := e.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, &LogDataDecodeError{Event: e.Sig, Err: err}
	}

	// Reassemble in declaration order, consuming topics and data values as they appear.
	out := make([]interface{}, len(e.Inputs))
	topicIdx, dataIdx := 0, 0
	for i, arg := range e.Inputs {
		if arg.Indexed {
			topic := log.Topics[topicOffset+topicIdx]
			topicIdx++
			value, err := topicToValue(arg.Type, topic)
			if err != nil {
				return nil, &LogDataDecodeError{Event: e.Sig, Err: err}
			}
			out[i] = value
		} else {
			out[i] = dataValues[dataIdx]
			dataIdx++
		}
	}
	return out, nil
}

// topicToValue decodes an indexed parameter's topic word. Dynamic and composite values were hashed
// at emission and are unrecoverable; they surface as the hash itself.
func topicToValue(t *abi.Type, topic types.Hash) (interface{}, error) {
	switch t.Kind {
	case abi.KindString, abi.KindBytes, abi.KindArray, abi.KindSlice, abi.KindTuple:
		return topic, nil
	default:
		return abi.Decode(t, topic.Bytes())
	}
}

// FilterEvents queries the backend for the contract's logs matching the named event and the given
// indexed constraints over a block range, and decodes each match. Decode failures never abort the
// batch; they are reported per log on the returned entries.
func (c *Contract) FilterEvents(ctx context.Context, event string, from *types.BlockNumber, to *types.BlockNumber, constraints ...interface{}) ([]DecodedEvent, error) {
	e, err := c.resolveEvent(event)
	if err != nil {
		return nil, err
	}
	topics, err := c.FilterTopics(event, constraints...)
	if err != nil {
		return nil, err
	}

	logs, err := c.backend.FilterLogs(ctx, types.FilterQuery{
		FromBlock: from,
		ToBlock:   to,
		Addresses: []types.Address{c.address},
		Topics:    topics,
	})
	if err != nil {
		return nil, err
	}

	out := make([]DecodedEvent, len(logs))
	for i, log := range logs {
		args, err := unpackLog(e, log)
		out[i] = DecodedEvent{Event: e.Sig, Log: log, Args: args, Err: err}
	}
	return out, nil
}
