package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// wsTestServer serves JSON-RPC over a websocket, answering every request with the result produced
// by the respond handler.
func wsTestServer(t *testing.T, respond func(req *rpcRequest) *rpcResponse) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// One write lock per connection; responses may be produced concurrently.
		var writeLock sync.Mutex
		for {
			var req rpcRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			go func(req rpcRequest) {
				resp := respond(&req)
				resp.JSONRPC = "2.0"
				resp.ID = req.ID
				writeLock.Lock()
				defer writeLock.Unlock()
				_ = conn.WriteJSON(resp)
			}(req)
		}
	}))
}

// wsURL rewrites an httptest server URL to the websocket scheme.
func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// TestWebSocketRequest verifies a request round trip over a live websocket connection.
func TestWebSocketRequest(t *testing.T) {
	server := wsTestServer(t, func(req *rpcRequest) *rpcResponse {
		assert.EqualValues(t, "xcb_blockNumber", req.Method)
		return &rpcResponse{Result: []byte(`"0x2a"`)}
	})
	defer server.Close()

	transport, err := DialWebSocket(context.Background(), wsURL(server))
	assert.NoError(t, err)
	defer transport.Close()

	result, err := transport.Request(context.Background(), "xcb_blockNumber", nil)
	assert.NoError(t, err)
	assert.EqualValues(t, `"0x2a"`, string(result))
}

// TestWebSocketConcurrentRequests verifies out-of-order responses are correlated back to their
// callers by id.
func TestWebSocketConcurrentRequests(t *testing.T) {
	server := wsTestServer(t, func(req *rpcRequest) *rpcResponse {
		// Echo the caller's marker back so mismatched correlation is visible.
		echoed, _ := req.Params[0].(float64)
		result, _ := json.Marshal(uint64(echoed))
		return &rpcResponse{Result: result}
	})
	defer server.Close()

	transport, err := DialWebSocket(context.Background(), wsURL(server))
	assert.NoError(t, err)
	defer transport.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i uint64) {
			defer wg.Done()
			result, err := transport.Request(context.Background(), "echo", []interface{}{i})
			assert.NoError(t, err)
			expected, _ := json.Marshal(i)
			assert.EqualValues(t, string(expected), string(result))
		}(uint64(i))
	}
	wg.Wait()
}

// TestWebSocketNodeError verifies a node error object surfaces as a ProtocolError over websocket
// just as it does over HTTP.
func TestWebSocketNodeError(t *testing.T) {
	server := wsTestServer(t, func(req *rpcRequest) *rpcResponse {
		return &rpcResponse{Error: &ProtocolError{Code: -32601, Message: "method not found"}}
	})
	defer server.Close()

	transport, err := DialWebSocket(context.Background(), wsURL(server))
	assert.NoError(t, err)
	defer transport.Close()

	_, err = transport.Request(context.Background(), "xcb_unknown", nil)
	var protocolErr *ProtocolError
	assert.ErrorAs(t, err, &protocolErr)
	assert.EqualValues(t, -32601, protocolErr.Code)
}

// TestWebSocketClosedConnection verifies requests after close fail with a connection error instead
// of hanging.
func TestWebSocketClosedConnection(t *testing.T) {
	server := wsTestServer(t, func(req *rpcRequest) *rpcResponse {
		return &rpcResponse{Result: []byte(`"0x1"`)}
	})
	defer server.Close()

	transport, err := DialWebSocket(context.Background(), wsURL(server))
	assert.NoError(t, err)
	assert.NoError(t, transport.Close())

	_, err = transport.Request(context.Background(), "xcb_blockNumber", nil)
	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

// TestWebSocketDialFailure verifies an unreachable endpoint is a connection error.
func TestWebSocketDialFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := wsURL(server)
	server.Close()

	_, err := DialWebSocket(context.Background(), endpoint)
	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}
