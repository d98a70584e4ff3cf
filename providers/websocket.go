package providers

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// WebSocketTransport performs JSON-RPC over a single websocket connection. Responses arrive on one
// reader goroutine and are correlated to their callers by request id, so any number of requests
// can be in flight concurrently.
type WebSocketTransport struct {
	endpoint string
	conn     *websocket.Conn
	nextID   atomic.Uint64

	// writeLock serializes writes; gorilla connections allow only one concurrent writer.
	writeLock sync.Mutex

	// pendingLock guards pending and closed.
	pendingLock sync.Mutex
	pending     map[uint64]chan *rpcResponse
	closed      bool

	// readErr holds the error that terminated the reader loop, delivered to every pending and
	// subsequent call.
	readErr error
}

// DialWebSocket connects to a websocket JSON-RPC endpoint and starts the response reader.
func DialWebSocket(ctx context.Context, endpoint string) (*WebSocketTransport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, &ConnectionError{Endpoint: endpoint, Err: err}
	}
	t := &WebSocketTransport{
		endpoint: endpoint,
		conn:     conn,
		pending:  make(map[uint64]chan *rpcResponse),
	}
	go t.readLoop()
	return t, nil
}

// Request implements Transport.
func (t *WebSocketTransport) Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	id := t.nextID.Add(1)
	request := &rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}

	// Register the response channel before writing so the reader can never race us.
	ch := make(chan *rpcResponse, 1)
	t.pendingLock.Lock()
	if t.closed {
		err := t.readErr
		t.pendingLock.Unlock()
		if err == nil {
			err = errors.New("transport closed")
		}
		return nil, &ConnectionError{Endpoint: t.endpoint, Err: err}
	}
	t.pending[id] = ch
	t.pendingLock.Unlock()
	defer func() {
		t.pendingLock.Lock()
		delete(t.pending, id)
		t.pendingLock.Unlock()
	}()

	t.writeLock.Lock()
	err := t.conn.WriteJSON(request)
	t.writeLock.Unlock()
	if err != nil {
		return nil, &ConnectionError{Endpoint: t.endpoint, Err: err}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return nil, &ConnectionError{Endpoint: t.endpoint, Err: t.readErr}
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	}
}

// readLoop reads responses until the connection dies, dispatching each to its pending caller.
// Unsolicited messages (for example, subscription notifications this library does not consume)
// are dropped.
func (t *WebSocketTransport) readLoop() {
	for {
		var resp rpcResponse
		if err := t.conn.ReadJSON(&resp); err != nil {
			t.failPending(err)
			return
		}
		t.pendingLock.Lock()
		ch, ok := t.pending[resp.ID]
		t.pendingLock.Unlock()
		if ok {
			ch <- &resp
		}
	}
}

// failPending marks the transport dead and releases every in-flight caller with the given error.
func (t *WebSocketTransport) failPending(err error) {
	t.pendingLock.Lock()
	defer t.pendingLock.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.readErr = err
	for id, ch := range t.pending {
		close(ch)
		delete(t.pending, id)
	}
}

// Close implements Transport, terminating the connection and failing any in-flight requests.
func (t *WebSocketTransport) Close() error {
	err := t.conn.Close()
	t.failPending(errors.New("transport closed"))
	return err
}
