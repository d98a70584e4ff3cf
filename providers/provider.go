package providers

import (
	"context"
	"encoding/json"
	"math/big"
	"sync"

	"github.com/corebc/go-corebc/logging"
	"github.com/corebc/go-corebc/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Provider is the innermost middleware layer: a direct mapping of the Middleware surface onto the
// node's xcb_* JSON-RPC namespace over a Transport. It performs no signing, no nonce management,
// and no fee logic; those belong to the layers wrapped around it.
type Provider struct {
	transport Transport
	watch     WatchConfig
	logger    *logging.Logger

	// networkIDLock guards the cached network id; the id is immutable for a connection's lifetime
	// so it is fetched at most once.
	networkIDLock sync.Mutex
	networkID     *uint64
}

// NewProvider constructs a provider over the given transport. The watch configuration is applied
// to every PendingTransaction the provider hands out and must be fully specified.
func NewProvider(transport Transport, watch WatchConfig) (*Provider, error) {
	if err := watch.validate(); err != nil {
		return nil, err
	}
	return &Provider{
		transport: transport,
		watch:     watch,
		logger:    logging.GlobalLogger.NewSubLogger("module", "providers"),
	}, nil
}

// Close closes the underlying transport.
func (p *Provider) Close() error {
	return p.transport.Close()
}

// request performs one RPC and unmarshals the result into out. A nil out discards the result.
func (p *Provider) request(ctx context.Context, method string, params []interface{}, out interface{}) error {
	result, err := p.transport.Request(ctx, method, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s result", method)
	}
	return nil
}

// Inner implements Middleware. The provider is always the innermost layer.
func (p *Provider) Inner() Middleware {
	return nil
}

// CallContract implements Middleware via xcb_call.
func (p *Provider) CallContract(ctx context.Context, tx *types.TransactionRequest, block types.BlockNumber) ([]byte, error) {
	var out hexutil.Bytes
	if err := p.request(ctx, "xcb_call", []interface{}{tx, block}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendTransaction implements Middleware via xcb_sendTransaction, leaving signing to the node's
// own account management. Stacks that sign locally never reach this path; their signer layer
// submits through SendRawTransaction instead.
func (p *Provider) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*PendingTransaction, error) {
	if err := p.FillTransaction(ctx, tx); err != nil {
		return nil, err
	}
	var hash types.Hash
	if err := p.request(ctx, "xcb_sendTransaction", []interface{}{tx}, &hash); err != nil {
		return nil, err
	}
	p.logger.Debug("broadcast transaction", logging.StructuredLogInfo{"hash": hash.String()})
	return newPendingTransaction(p, hash, p.watch), nil
}

// SendRawTransaction implements Middleware via xcb_sendRawTransaction.
func (p *Provider) SendRawTransaction(ctx context.Context, raw types.Bytes) (*PendingTransaction, error) {
	var hash types.Hash
	if err := p.request(ctx, "xcb_sendRawTransaction", []interface{}{hexutil.Bytes(raw)}, &hash); err != nil {
		return nil, err
	}
	p.logger.Debug("broadcast raw transaction", logging.StructuredLogInfo{"hash": hash.String()})
	return newPendingTransaction(p, hash, p.watch), nil
}

// FillTransaction implements Middleware. The provider fills the network id, the one field derived
// from the connection itself.
func (p *Provider) FillTransaction(ctx context.Context, tx *types.TransactionRequest) error {
	if tx.NetworkID == nil {
		id, err := p.NetworkID(ctx)
		if err != nil {
			return err
		}
		tx.WithNetworkID(id)
	}
	return nil
}

// BlockNumber implements Middleware via xcb_blockNumber.
func (p *Provider) BlockNumber(ctx context.Context) (uint64, error) {
	var out hexutil.Uint64
	if err := p.request(ctx, "xcb_blockNumber", nil, &out); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// NetworkID implements Middleware via xcb_networkId. The id is immutable per connection and is
// cached after the first successful fetch.
func (p *Provider) NetworkID(ctx context.Context) (uint64, error) {
	p.networkIDLock.Lock()
	defer p.networkIDLock.Unlock()
	if p.networkID != nil {
		return *p.networkID, nil
	}
	var out hexutil.Uint64
	if err := p.request(ctx, "xcb_networkId", nil, &out); err != nil {
		return 0, err
	}
	id := uint64(out)
	p.networkID = &id
	return id, nil
}

// EnergyPrice implements Middleware via xcb_energyPrice.
func (p *Provider) EnergyPrice(ctx context.Context) (*big.Int, error) {
	var out hexutil.Big
	if err := p.request(ctx, "xcb_energyPrice", nil, &out); err != nil {
		return nil, err
	}
	return (*big.Int)(&out), nil
}

// EstimateEnergy implements Middleware via xcb_estimateEnergy.
func (p *Provider) EstimateEnergy(ctx context.Context, tx *types.TransactionRequest) (uint64, error) {
	var out hexutil.Uint64
	if err := p.request(ctx, "xcb_estimateEnergy", []interface{}{tx}, &out); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// PendingNonceAt implements Middleware via xcb_getTransactionCount against the pending block, so
// transactions queued in the pool are counted.
func (p *Provider) PendingNonceAt(ctx context.Context, addr types.Address) (uint64, error) {
	var out hexutil.Uint64
	if err := p.request(ctx, "xcb_getTransactionCount", []interface{}{addr, types.PendingBlock}, &out); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// TransactionReceipt implements Middleware via xcb_getTransactionReceipt. A transaction that is
// not yet mined yields a nil receipt and no error.
func (p *Provider) TransactionReceipt(ctx context.Context, hash types.Hash) (*types.Receipt, error) {
	var out *types.Receipt
	if err := p.request(ctx, "xcb_getTransactionReceipt", []interface{}{hash}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionByHash implements Middleware via xcb_getTransactionByHash. An unknown hash yields a
// nil transaction and no error.
func (p *Provider) TransactionByHash(ctx context.Context, hash types.Hash) (*types.Transaction, error) {
	var out *types.Transaction
	if err := p.request(ctx, "xcb_getTransactionByHash", []interface{}{hash}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterLogs implements Middleware via xcb_getLogs.
func (p *Provider) FilterLogs(ctx context.Context, query types.FilterQuery) ([]types.Log, error) {
	var out []types.Log
	if err := p.request(ctx, "xcb_getLogs", []interface{}{query}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BalanceAt implements Middleware via xcb_getBalance.
func (p *Provider) BalanceAt(ctx context.Context, addr types.Address, block types.BlockNumber) (*big.Int, error) {
	var out hexutil.Big
	if err := p.request(ctx, "xcb_getBalance", []interface{}{addr, block}, &out); err != nil {
		return nil, err
	}
	return (*big.Int)(&out), nil
}

// CodeAt implements Middleware via xcb_getCode.
func (p *Provider) CodeAt(ctx context.Context, addr types.Address, block types.BlockNumber) ([]byte, error) {
	var out hexutil.Bytes
	if err := p.request(ctx, "xcb_getCode", []interface{}{addr, block}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
