package providers

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrTimedOut is returned by a pending transaction watcher whose deadline elapsed before the
// transaction reached its confirmation depth. The transaction may still be mined later.
var ErrTimedOut = errors.New("providers: transaction watch deadline elapsed")

// ErrDropped is returned by a pending transaction watcher when the node no longer knows any
// broadcast hash and none of them was mined. The transaction left the transaction pool.
var ErrDropped = errors.New("providers: transaction dropped from the transaction pool")

// errNoSender indicates a submission whose sender could not be resolved by any layer.
var errNoSender = errors.New("providers: transaction sender is not set and no signer layer can supply one")

// TransientError wraps a failure that did not carry a node verdict: timeouts, resets, and other
// I/O conditions where retrying the same request is reasonable.
type TransientError struct {
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *TransientError) Error() string {
	return fmt.Sprintf("providers: transient transport failure: %v", e.Err)
}

// Unwrap returns the underlying failure.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// ProtocolError is an error object reported by the node itself. The request reached the node and
// was rejected, so retrying it unchanged will fail the same way.
type ProtocolError struct {
	// Code is the JSON-RPC error code.
	Code int `json:"code"`

	// Message is the node's error message.
	Message string `json:"message"`

	// Data is the optional error payload, e.g. a revert reason.
	Data interface{} `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("providers: node error %d: %s", e.Code, e.Message)
}

// ConnectionError indicates the transport's connection is unusable for this call: the endpoint
// could not be reached, or an established connection was lost mid-call.
type ConnectionError struct {
	// Endpoint is the transport endpoint the failure relates to.
	Endpoint string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("providers: connection to %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}
