package abi

import "fmt"

// TypeMismatchError indicates a value's runtime shape does not match the descriptor it was
// encoded or decoded against. It always signals a programming or ABI document mismatch and is
// never retried.
type TypeMismatchError struct {
	// Expected is the canonical name of the descriptor the value was checked against.
	Expected string

	// Got describes the offending runtime value.
	Got string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("abi: type mismatch: cannot use %s as %s", e.Got, e.Expected)
}

// BufferUnderrunError indicates an encoded buffer was too short for the layout implied by its
// descriptor: a truncated word, an offset pointing past the end of the buffer, or a length prefix
// exceeding the remaining bytes. Decoding fails with this error instead of ever reading out of
// bounds.
type BufferUnderrunError struct {
	// Offset is the byte position at which the read was attempted.
	Offset uint64

	// Need is the number of bytes the read required.
	Need uint64

	// Have is the buffer length.
	Have uint64
}

// Error implements the error interface.
func (e *BufferUnderrunError) Error() string {
	return fmt.Sprintf("abi: buffer underrun: need %d bytes at offset %d, have %d", e.Need, e.Offset, e.Have)
}

// ParseError indicates a malformed type expression or ABI document. It is raised at construction
// time, never during later encode/decode operations.
type ParseError struct {
	// Input is the offending type expression or document fragment.
	Input string

	// Reason describes why parsing failed.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("abi: cannot parse %q: %s", e.Input, e.Reason)
}

// ArgumentCountError indicates a call was built with the wrong number of arguments for its
// descriptor.
type ArgumentCountError struct {
	// Expected is the number of arguments the descriptor declares.
	Expected int

	// Got is the number of arguments supplied.
	Got int
}

// Error implements the error interface.
func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("abi: argument count mismatch: got %d, want %d", e.Got, e.Expected)
}

// ArgumentTypeMismatchError indicates one argument of a call did not match its declared
// descriptor. It is surfaced at build time, before any network access.
type ArgumentTypeMismatchError struct {
	// Index is the zero-based position of the offending argument.
	Index int

	// Expected is the canonical name of the declared type.
	Expected string

	// Got describes the supplied runtime value.
	Got string
}

// Error implements the error interface.
func (e *ArgumentTypeMismatchError) Error() string {
	return fmt.Sprintf("abi: argument %d: cannot use %s as %s", e.Index, e.Got, e.Expected)
}
