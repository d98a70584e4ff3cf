package contract

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/corebc/go-corebc/abi"
	"github.com/corebc/go-corebc/providers"
	"github.com/corebc/go-corebc/types"
	"github.com/stretchr/testify/assert"
)

// tokenABI is the interface document used across the binding tests: an overloaded transfer, a
// view method, and a Transfer event with two indexed parameters.
const tokenABI = `[
	{"type": "function", "name": "transfer", "stateMutability": "nonpayable",
		"inputs": [{"name": "to", "type": "address"}, {"name": "amount", "type": "uint256"}],
		"outputs": [{"name": "", "type": "bool"}]},
	{"type": "function", "name": "transfer", "stateMutability": "nonpayable",
		"inputs": [{"name": "to", "type": "address"}, {"name": "amount", "type": "uint256"}, {"name": "memo", "type": "string"}],
		"outputs": [{"name": "", "type": "bool"}]},
	{"type": "function", "name": "transfer", "stateMutability": "nonpayable",
		"inputs": [{"name": "to", "type": "address"}, {"name": "memo", "type": "string"}],
		"outputs": [{"name": "", "type": "bool"}]},
	{"type": "function", "name": "balanceOf", "stateMutability": "view",
		"inputs": [{"name": "owner", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}]},
	{"type": "event", "name": "Transfer", "anonymous": false,
		"inputs": [
			{"name": "from", "type": "address", "indexed": true},
			{"name": "to", "type": "address", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false}
		]}
]`

// mockBackend implements Backend with pluggable handlers.
type mockBackend struct {
	callFn   func(ctx context.Context, tx *types.TransactionRequest, block types.BlockNumber) ([]byte, error)
	sendFn   func(ctx context.Context, tx *types.TransactionRequest) (*providers.PendingTransaction, error)
	filterFn func(ctx context.Context, query types.FilterQuery) ([]types.Log, error)
}

func (m *mockBackend) CallContract(ctx context.Context, tx *types.TransactionRequest, block types.BlockNumber) ([]byte, error) {
	return m.callFn(ctx, tx, block)
}

func (m *mockBackend) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*providers.PendingTransaction, error) {
	return m.sendFn(ctx, tx)
}

func (m *mockBackend) FilterLogs(ctx context.Context, query types.FilterQuery) ([]types.Log, error) {
	return m.filterFn(ctx, query)
}

// testAddress returns a deterministic checksummed address whose payload is filled with the given
// byte.
func testAddress(fill byte) types.Address {
	var payload [20]byte
	for i := range payload {
		payload[i] = fill
	}
	return types.ToICAN(payload, types.Mainnet)
}

// newTestContract binds the token ABI to a throwaway address and backend.
func newTestContract(t *testing.T, backend Backend) *Contract {
	parsed, err := abi.ParseJSON([]byte(tokenABI))
	assert.NoError(t, err)
	return NewContract(testAddress(0xaa), parsed, backend)
}

// TestBuildCallDataLayout verifies the call data of a token transfer: the 4-byte selector followed
// by the padded recipient and amount words.
func TestBuildCallDataLayout(t *testing.T) {
	c := newTestContract(t, nil)
	to := testAddress(0x22)

	data, err := c.BuildCallData("transfer(address,uint256)", to, big.NewInt(1000))
	assert.NoError(t, err)
	assert.EqualValues(t, 4+64, len(data))

	method := c.ABI().MethodBySig("transfer(address,uint256)")
	assert.EqualValues(t, method.ID[:], data[:4])
	assert.EqualValues(t, to.Bytes(), data[4+10:4+32])
	assert.EqualValues(t, []byte{0x03, 0xe8}, data[4+62:])
	assert.True(t, bytes.Equal(data[4+32:4+62], make([]byte, 30)))
}

// TestOverloadResolution verifies bare names resolve through argument count and shape, and that
// genuinely ambiguous invocations are rejected rather than guessed.
func TestOverloadResolution(t *testing.T) {
	c := newTestContract(t, nil)
	to := testAddress(0x22)

	// Two arguments of shape (address, uint256) match only the first overload.
	data, err := c.BuildCallData("transfer", to, big.NewInt(5))
	assert.NoError(t, err)
	assert.EqualValues(t, c.ABI().MethodBySig("transfer(address,uint256)").ID[:], data[:4])

	// Three arguments match only the three-parameter overload.
	data, err = c.BuildCallData("transfer", to, big.NewInt(5), "memo")
	assert.NoError(t, err)
	assert.EqualValues(t, c.ABI().MethodBySig("transfer(address,uint256,string)").ID[:], data[:4])

	// A full signature bypasses resolution entirely.
	_, err = c.BuildCallData("transfer(address,string)", to, "memo")
	assert.NoError(t, err)

	// An unknown name fails with MethodNotFoundError.
	_, err = c.BuildCallData("mint", big.NewInt(1))
	var notFound *MethodNotFoundError
	assert.ErrorAs(t, err, &notFound)

	// An unknown signature fails the same way.
	_, err = c.BuildCallData("transfer(bool)", true)
	assert.ErrorAs(t, err, &notFound)

	// No overload takes zero arguments.
	_, err = c.BuildCallData("transfer")
	assert.ErrorAs(t, err, &notFound)
}

// TestOverloadAmbiguity verifies that an invocation matching multiple overloads by count and shape
// is rejected with the matching candidates listed.
func TestOverloadAmbiguity(t *testing.T) {
	doc := `[
		{"type": "function", "name": "set", "stateMutability": "nonpayable",
			"inputs": [{"name": "a", "type": "uint256"}], "outputs": []},
		{"type": "function", "name": "set", "stateMutability": "nonpayable",
			"inputs": [{"name": "a", "type": "uint128"}], "outputs": []}
	]`
	parsed, err := abi.ParseJSON([]byte(doc))
	assert.NoError(t, err)
	c := NewContract(testAddress(0x01), parsed, nil)

	// A small integer satisfies both uint256 and uint128.
	_, err = c.BuildCallData("set", big.NewInt(7))
	var ambiguous *AmbiguousOverloadError
	assert.ErrorAs(t, err, &ambiguous)
	assert.EqualValues(t, 2, len(ambiguous.Candidates))

	// The full signature disambiguates.
	_, err = c.BuildCallData("set(uint128)", big.NewInt(7))
	assert.NoError(t, err)
}

// TestCallDecodesOutputs verifies a read-only call round trip: the request carries the call data,
// and the raw return data decodes into the declared outputs.
func TestCallDecodesOutputs(t *testing.T) {
	owner := testAddress(0x33)
	balance := big.NewInt(123456)

	backend := &mockBackend{
		callFn: func(ctx context.Context, tx *types.TransactionRequest, block types.BlockNumber) ([]byte, error) {
			// The request targets the bound contract with selector-prefixed data.
			assert.NotNil(t, tx.To)
			assert.EqualValues(t, types.LatestBlock, block)
			assert.EqualValues(t, 4+32, len(tx.Data))
			return abi.Arguments{{Type: mustType(t, "uint256")}}.Pack(balance)
		},
	}
	c := newTestContract(t, backend)

	values, err := c.Call(context.Background(), nil, "balanceOf", owner)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, len(values))
	assert.EqualValues(t, balance.String(), values[0].(*big.Int).String())
}

// TestCallEmptyReturnData verifies that a call returning no data where outputs are declared fails
// with EmptyReturnDataError rather than a codec error.
func TestCallEmptyReturnData(t *testing.T) {
	backend := &mockBackend{
		callFn: func(ctx context.Context, tx *types.TransactionRequest, block types.BlockNumber) ([]byte, error) {
			return nil, nil
		},
	}
	c := newTestContract(t, backend)

	_, err := c.Call(context.Background(), nil, "balanceOf", testAddress(0x33))
	var empty *EmptyReturnDataError
	assert.ErrorAs(t, err, &empty)
	assert.EqualValues(t, "balanceOf(address)", empty.Method)
}

// TestCallOpts verifies explicit call options reach the backend.
func TestCallOpts(t *testing.T) {
	caller := testAddress(0x44)
	pinned := types.BlockAt(128)

	backend := &mockBackend{
		callFn: func(ctx context.Context, tx *types.TransactionRequest, block types.BlockNumber) ([]byte, error) {
			assert.NotNil(t, tx.From)
			assert.EqualValues(t, caller, *tx.From)
			assert.EqualValues(t, pinned, block)
			return abi.Arguments{{Type: mustType(t, "uint256")}}.Pack(big.NewInt(1))
		},
	}
	c := newTestContract(t, backend)

	_, err := c.Call(context.Background(), &CallOpts{From: &caller, Block: &pinned}, "balanceOf", caller)
	assert.NoError(t, err)
}

// TestTransactBuildsRequest verifies a submission carries the call data, target, and explicit
// overrides.
func TestTransactBuildsRequest(t *testing.T) {
	to := testAddress(0x22)
	value := big.NewInt(42)
	var sent *types.TransactionRequest

	backend := &mockBackend{
		sendFn: func(ctx context.Context, tx *types.TransactionRequest) (*providers.PendingTransaction, error) {
			sent = tx
			return nil, nil
		},
	}
	c := newTestContract(t, backend)

	_, err := c.Transact(context.Background(), &TransactOpts{Value: value}, "transfer", to, big.NewInt(1000))
	assert.NoError(t, err)
	assert.NotNil(t, sent)
	assert.NotNil(t, sent.To)
	assert.EqualValues(t, c.Address(), *sent.To)
	assert.EqualValues(t, value.String(), sent.Value.String())
	assert.EqualValues(t, c.ABI().MethodBySig("transfer(address,uint256)").ID[:], []byte(sent.Data[:4]))
}

// TestBuildDeployData verifies init payload assembly: bytecode followed by encoded constructor
// arguments.
func TestBuildDeployData(t *testing.T) {
	doc := `[{"type": "constructor", "stateMutability": "nonpayable",
		"inputs": [{"name": "supply", "type": "uint256"}]}]`
	parsed, err := abi.ParseJSON([]byte(doc))
	assert.NoError(t, err)

	bytecode := []byte{0x60, 0x80, 0x60, 0x40}
	data, err := BuildDeployData(parsed, bytecode, big.NewInt(1000))
	assert.NoError(t, err)
	assert.EqualValues(t, bytecode, data[:4])
	assert.EqualValues(t, 4+32, len(data))

	// Constructor arity is enforced.
	_, err = BuildDeployData(parsed, bytecode)
	assert.Error(t, err)
}

// mustType parses a type expression, failing the test on error.
func mustType(t *testing.T, expr string) *abi.Type {
	parsed, err := abi.ParseType(expr)
	assert.NoError(t, err)
	return parsed
}
