package providers

import (
	"context"
	"math/big"

	"github.com/corebc/go-corebc/types"
)

// Middleware is one layer of the request stack. Layers wrap each other explicitly at construction
// time; each call either handles, augments, or delegates to the next inner layer, and the
// innermost layer is always a Provider speaking to a node.
//
// Layers pass inner errors through unchanged so the caller always sees the original taxonomy
// (ProtocolError, TransientError, ConnectionError) no matter how deep the stack is.
type Middleware interface {
	// Inner returns the next inner layer, or nil for the innermost provider.
	Inner() Middleware

	// CallContract executes a read-only message call against the given block and returns the raw
	// return data. Calls never consume a nonce and never reach the signer.
	CallContract(ctx context.Context, tx *types.TransactionRequest, block types.BlockNumber) ([]byte, error)

	// SendTransaction fills the layer's fields of the request, delegates inward, and returns a
	// watchable handle for the broadcast transaction.
	SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*PendingTransaction, error)

	// SendRawTransaction broadcasts an already-signed transaction payload.
	SendRawTransaction(ctx context.Context, raw types.Bytes) (*PendingTransaction, error)

	// FillTransaction populates the fields this layer is responsible for, then delegates inward so
	// one outer call fills the whole request without broadcasting it.
	FillTransaction(ctx context.Context, tx *types.TransactionRequest) error

	// BlockNumber returns the current chain height.
	BlockNumber(ctx context.Context) (uint64, error)

	// NetworkID returns the network identifier used for replay protection.
	NetworkID(ctx context.Context) (uint64, error)

	// EnergyPrice returns the node's suggested energy price.
	EnergyPrice(ctx context.Context) (*big.Int, error)

	// EstimateEnergy simulates the request and returns an energy limit estimate.
	EstimateEnergy(ctx context.Context, tx *types.TransactionRequest) (uint64, error)

	// PendingNonceAt returns the account's next nonce including pending transactions.
	PendingNonceAt(ctx context.Context, addr types.Address) (uint64, error)

	// TransactionReceipt returns the receipt of a mined transaction, or nil if not mined.
	TransactionReceipt(ctx context.Context, hash types.Hash) (*types.Receipt, error)

	// TransactionByHash returns a known transaction, mined or pending, or nil if unknown.
	TransactionByHash(ctx context.Context, hash types.Hash) (*types.Transaction, error)

	// FilterLogs returns the logs matching the given query.
	FilterLogs(ctx context.Context, query types.FilterQuery) ([]types.Log, error)

	// BalanceAt returns the account balance at the given block.
	BalanceAt(ctx context.Context, addr types.Address, block types.BlockNumber) (*big.Int, error)

	// CodeAt returns the contract code at the given block.
	CodeAt(ctx context.Context, addr types.Address, block types.BlockNumber) ([]byte, error)
}

// passthrough delegates every Middleware method to the wrapped inner layer. Concrete middlewares
// embed it and override only the calls they participate in.
type passthrough struct {
	inner Middleware
}

func (p *passthrough) Inner() Middleware {
	return p.inner
}

func (p *passthrough) CallContract(ctx context.Context, tx *types.TransactionRequest, block types.BlockNumber) ([]byte, error) {
	return p.inner.CallContract(ctx, tx, block)
}

func (p *passthrough) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*PendingTransaction, error) {
	return p.inner.SendTransaction(ctx, tx)
}

func (p *passthrough) SendRawTransaction(ctx context.Context, raw types.Bytes) (*PendingTransaction, error) {
	return p.inner.SendRawTransaction(ctx, raw)
}

func (p *passthrough) FillTransaction(ctx context.Context, tx *types.TransactionRequest) error {
	return p.inner.FillTransaction(ctx, tx)
}

func (p *passthrough) BlockNumber(ctx context.Context) (uint64, error) {
	return p.inner.BlockNumber(ctx)
}

func (p *passthrough) NetworkID(ctx context.Context) (uint64, error) {
	return p.inner.NetworkID(ctx)
}

func (p *passthrough) EnergyPrice(ctx context.Context) (*big.Int, error) {
	return p.inner.EnergyPrice(ctx)
}

func (p *passthrough) EstimateEnergy(ctx context.Context, tx *types.TransactionRequest) (uint64, error) {
	return p.inner.EstimateEnergy(ctx, tx)
}

func (p *passthrough) PendingNonceAt(ctx context.Context, addr types.Address) (uint64, error) {
	return p.inner.PendingNonceAt(ctx, addr)
}

func (p *passthrough) TransactionReceipt(ctx context.Context, hash types.Hash) (*types.Receipt, error) {
	return p.inner.TransactionReceipt(ctx, hash)
}

func (p *passthrough) TransactionByHash(ctx context.Context, hash types.Hash) (*types.Transaction, error) {
	return p.inner.TransactionByHash(ctx, hash)
}

func (p *passthrough) FilterLogs(ctx context.Context, query types.FilterQuery) ([]types.Log, error) {
	return p.inner.FilterLogs(ctx, query)
}

func (p *passthrough) BalanceAt(ctx context.Context, addr types.Address, block types.BlockNumber) (*big.Int, error) {
	return p.inner.BalanceAt(ctx, addr, block)
}

func (p *passthrough) CodeAt(ctx context.Context, addr types.Address, block types.BlockNumber) ([]byte, error) {
	return p.inner.CodeAt(ctx, addr, block)
}
