package providers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/corebc/go-corebc/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// recordedCall is one RPC issued through the stub transport.
type recordedCall struct {
	method string
	params []interface{}
}

// stubTransport serves canned results per method and records every request.
type stubTransport struct {
	results map[string]string
	calls   []recordedCall
}

func (t *stubTransport) Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	t.calls = append(t.calls, recordedCall{method: method, params: params})
	result, ok := t.results[method]
	if !ok {
		return nil, errors.Errorf("unexpected rpc %q", method)
	}
	return json.RawMessage(result), nil
}

func (t *stubTransport) Close() error {
	return nil
}

func (t *stubTransport) count(method string) int {
	n := 0
	for _, call := range t.calls {
		if call.method == method {
			n++
		}
	}
	return n
}

func newTestProvider(t *testing.T, transport Transport) *Provider {
	provider, err := NewProvider(transport, testWatch())
	assert.NoError(t, err)
	return provider
}

// TestProviderRejectsBadWatchConfig verifies construction fails on an unusable watch
// configuration.
func TestProviderRejectsBadWatchConfig(t *testing.T) {
	_, err := NewProvider(&stubTransport{}, WatchConfig{})
	assert.Error(t, err)
}

// TestProviderQueries verifies the query surface maps onto the xcb namespace and decodes hex
// quantities.
func TestProviderQueries(t *testing.T) {
	transport := &stubTransport{results: map[string]string{
		"xcb_blockNumber":         `"0x10"`,
		"xcb_energyPrice":         `"0x3b9aca00"`,
		"xcb_getTransactionCount": `"0x7"`,
		"xcb_getBalance":          `"0xde0b6b3a7640000"`,
		"xcb_getCode":             `"0x6080"`,
	}}
	provider := newTestProvider(t, transport)
	ctx := context.Background()

	height, err := provider.BlockNumber(ctx)
	assert.NoError(t, err)
	assert.EqualValues(t, 16, height)

	price, err := provider.EnergyPrice(ctx)
	assert.NoError(t, err)
	assert.EqualValues(t, "1000000000", price.String())

	nonce, err := provider.PendingNonceAt(ctx, testAddress(0x11))
	assert.NoError(t, err)
	assert.EqualValues(t, 7, nonce)
	// The nonce query must count pool transactions, not just mined state.
	last := transport.calls[len(transport.calls)-1]
	assert.EqualValues(t, types.PendingBlock, last.params[1])

	balance, err := provider.BalanceAt(ctx, testAddress(0x11), types.LatestBlock)
	assert.NoError(t, err)
	assert.EqualValues(t, "1000000000000000000", balance.String())

	code, err := provider.CodeAt(ctx, testAddress(0x11), types.LatestBlock)
	assert.NoError(t, err)
	assert.EqualValues(t, []byte{0x60, 0x80}, code)
}

// TestProviderNetworkIDCached verifies the network id is fetched once per connection.
func TestProviderNetworkIDCached(t *testing.T) {
	transport := &stubTransport{results: map[string]string{
		"xcb_networkId": `"0x3"`,
	}}
	provider := newTestProvider(t, transport)

	for i := 0; i < 3; i++ {
		id, err := provider.NetworkID(context.Background())
		assert.NoError(t, err)
		assert.EqualValues(t, 3, id)
	}
	assert.EqualValues(t, 1, transport.count("xcb_networkId"))
}

// TestProviderFillsNetworkID verifies the provider's share of request filling.
func TestProviderFillsNetworkID(t *testing.T) {
	transport := &stubTransport{results: map[string]string{
		"xcb_networkId": `"0x3"`,
	}}
	provider := newTestProvider(t, transport)

	tx := types.NewTransactionRequest()
	assert.NoError(t, provider.FillTransaction(context.Background(), tx))
	assert.EqualValues(t, 3, *tx.NetworkID)

	// An explicit network id short-circuits the fetch.
	explicit := types.NewTransactionRequest().WithNetworkID(9)
	assert.NoError(t, provider.FillTransaction(context.Background(), explicit))
	assert.EqualValues(t, 9, *explicit.NetworkID)
	assert.EqualValues(t, 1, transport.count("xcb_networkId"))
}

// TestProviderUnminedReceiptIsNil verifies an unmined transaction yields no receipt and no error,
// the contract the watcher's polling depends on.
func TestProviderUnminedReceiptIsNil(t *testing.T) {
	transport := &stubTransport{results: map[string]string{
		"xcb_getTransactionReceipt": `null`,
		"xcb_getTransactionByHash":  `null`,
	}}
	provider := newTestProvider(t, transport)

	receipt, err := provider.TransactionReceipt(context.Background(), hashOf(0x01))
	assert.NoError(t, err)
	assert.Nil(t, receipt)

	tx, err := provider.TransactionByHash(context.Background(), hashOf(0x01))
	assert.NoError(t, err)
	assert.Nil(t, tx)
}

// TestProviderSendRawTransaction verifies the raw broadcast path returns a watchable handle for
// the node-assigned hash.
func TestProviderSendRawTransaction(t *testing.T) {
	hash := hashOf(0xaa)
	transport := &stubTransport{results: map[string]string{
		"xcb_sendRawTransaction": `"` + hash.String() + `"`,
	}}
	provider := newTestProvider(t, transport)

	pending, err := provider.SendRawTransaction(context.Background(), types.Bytes{0x01, 0x02})
	assert.NoError(t, err)
	assert.EqualValues(t, hash, pending.Hash())
}

// TestProviderCallContract verifies the read-only call path decodes the return data.
func TestProviderCallContract(t *testing.T) {
	transport := &stubTransport{results: map[string]string{
		"xcb_call": `"0x0000000000000000000000000000000000000000000000000000000000000001"`,
	}}
	provider := newTestProvider(t, transport)

	out, err := provider.CallContract(context.Background(), types.NewTransactionRequest().WithTo(testAddress(0x22)), types.LatestBlock)
	assert.NoError(t, err)
	assert.EqualValues(t, 32, len(out))
	assert.EqualValues(t, 1, out[31])
}
