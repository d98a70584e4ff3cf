// Package providers implements the node-facing half of the library: JSON-RPC transports, the
// composable middleware stack that prepares and submits transactions, and the pending transaction
// watcher.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Transport issues one JSON-RPC request and returns the raw result payload. Implementations must
// be safe for concurrent use; the middleware stack issues requests from multiple goroutines.
//
// Failures are classified by the transport: a node-reported error object surfaces as a
// ProtocolError, an I/O condition worth retrying as a TransientError, and an unusable connection
// as a ConnectionError.
type Transport interface {
	// Request performs the named RPC with the given positional params and returns the raw result.
	Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error)

	// Close releases the transport's resources. Requests issued after Close fail.
	Close() error
}

// rpcRequest is the JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// rpcResponse is the JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *ProtocolError  `json:"error"`
}

// HTTPTransport performs JSON-RPC over HTTP POST. Each request is a separate round trip; request
// ids only disambiguate logs, as HTTP responses are already correlated by the connection.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
	nextID   atomic.Uint64
}

// NewHTTPTransport constructs an HTTP transport for the given endpoint URL. The provided client
// controls timeouts and connection pooling; a nil client uses http.DefaultClient.
func NewHTTPTransport(endpoint string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{endpoint: endpoint, client: client}
}

// Request implements Transport.
func (t *HTTPTransport) Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(&rpcRequest{
		JSONRPC: "2.0",
		ID:      t.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode rpc request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build rpc request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// Context cancellation is the caller's decision, not a transport condition.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ConnectionError{Endpoint: t.endpoint, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	if resp.StatusCode >= 500 {
		return nil, &TransientError{Err: errors.Errorf("server status %s", resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ConnectionError{Endpoint: t.endpoint, Err: errors.Errorf("unexpected status %s", resp.Status)}
	}

	var parsed rpcResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, &TransientError{Err: errors.Wrap(err, "malformed rpc response")}
	}
	if parsed.Error != nil {
		return nil, parsed.Error
	}
	return parsed.Result, nil
}

// Close implements Transport. HTTP connections are pooled by the client, so there is nothing to
// tear down beyond idle connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
