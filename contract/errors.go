package contract

import (
	"fmt"
	"strings"
)

// MethodNotFoundError indicates no declared method (or event) matched the requested name, argument
// count and shape.
type MethodNotFoundError struct {
	// Name is the requested method or event name, or full signature.
	Name string

	// ArgCount is the number of arguments the caller supplied, or -1 when the lookup did not
	// involve arguments.
	ArgCount int
}

// Error implements the error interface.
func (e *MethodNotFoundError) Error() string {
	if e.ArgCount < 0 {
		return fmt.Sprintf("contract: no method or event named %q", e.Name)
	}
	return fmt.Sprintf("contract: no method %q accepts %d argument(s) of the given shapes", e.Name, e.ArgCount)
}

// AmbiguousOverloadError indicates a bare method name matched more than one overload for the given
// arguments, so the caller must use a full canonical signature instead.
type AmbiguousOverloadError struct {
	// Name is the requested bare method name.
	Name string

	// Candidates are the canonical signatures of every matching overload.
	Candidates []string
}

// Error implements the error interface.
func (e *AmbiguousOverloadError) Error() string {
	return fmt.Sprintf("contract: method name %q is ambiguous between %s; use a full signature", e.Name, strings.Join(e.Candidates, ", "))
}

// EmptyReturnDataError indicates a call returned no data although the method declares outputs.
// This usually means the target address carries no code, or the call reverted without a reason.
// It is distinct from codec errors: there was nothing to decode at all.
type EmptyReturnDataError struct {
	// Method is the canonical signature of the called method.
	Method string
}

// Error implements the error interface.
func (e *EmptyReturnDataError) Error() string {
	return fmt.Sprintf("contract: call to %s returned no data; the target may carry no code", e.Method)
}

// ConstraintCountError indicates a topic filter was built with more constraints than the event
// declares indexed parameters.
type ConstraintCountError struct {
	// Event is the canonical signature of the event.
	Event string

	// Indexed is the number of indexed parameters the event declares.
	Indexed int

	// Got is the number of constraints supplied.
	Got int
}

// Error implements the error interface.
func (e *ConstraintCountError) Error() string {
	return fmt.Sprintf("contract: %d constraint(s) supplied for %s, which declares %d indexed parameter(s)", e.Got, e.Event, e.Indexed)
}

// TopicCountMismatchError indicates a log's topic list does not match the event declaration it was
// decoded against.
type TopicCountMismatchError struct {
	// Event is the canonical signature of the event.
	Event string

	// Expected is the topic count the declaration requires.
	Expected int

	// Got is the topic count the log carries.
	Got int
}

// Error implements the error interface.
func (e *TopicCountMismatchError) Error() string {
	return fmt.Sprintf("contract: log for %s carries %d topic(s), want %d", e.Event, e.Got, e.Expected)
}

// LogDataDecodeError indicates a log structurally matched an event but its payload could not be
// decoded. When decoding a batch, the error is attached to the offending log and the remaining
// logs are still decoded.
type LogDataDecodeError struct {
	// Event is the canonical signature of the event.
	Event string

	// Err is the underlying decode failure.
	Err error
}

// Error implements the error interface.
func (e *LogDataDecodeError) Error() string {
	return fmt.Sprintf("contract: failed to decode log for %s: %v", e.Event, e.Err)
}

// Unwrap returns the underlying decode failure.
func (e *LogDataDecodeError) Unwrap() error {
	return e.Err
}
