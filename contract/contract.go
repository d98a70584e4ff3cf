// Package contract binds a parsed ABI to a deployed address and a provider stack, turning typed
// Go values into call data and raw return data, logs and topics back into typed Go values.
package contract

import (
	"context"
	"math/big"
	"strings"

	"github.com/corebc/go-corebc/abi"
	"github.com/corebc/go-corebc/providers"
	"github.com/corebc/go-corebc/types"
)

// Backend is the provider surface a bound contract needs. Any providers.Middleware satisfies it.
type Backend interface {
	// CallContract executes a read-only message call against the given block.
	CallContract(ctx context.Context, tx *types.TransactionRequest, block types.BlockNumber) ([]byte, error)

	// SendTransaction submits a state-changing transaction through the middleware stack.
	SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*providers.PendingTransaction, error)

	// FilterLogs returns the logs matching the given query.
	FilterLogs(ctx context.Context, query types.FilterQuery) ([]types.Log, error)
}

// CallOpts adjusts a read-only call. A nil *CallOpts reads latest state as an anonymous caller.
type CallOpts struct {
	// From sets the apparent caller, for methods whose result depends on msg sender.
	From *types.Address

	// Block pins the call to a specific chain state. Nil means latest.
	Block *types.BlockNumber
}

// TransactOpts adjusts a state-changing submission. Unset fields are filled by the middleware
// stack. A nil *TransactOpts leaves every field to the stack.
type TransactOpts struct {
	// From overrides the sender; when unset the stack's signer supplies its identity.
	From *types.Address

	// Value is the amount of ore sent along with the call.
	Value *big.Int

	// EnergyLimit overrides the estimated limit.
	EnergyLimit *uint64

	// EnergyPrice overrides the oracle price.
	EnergyPrice *big.Int

	// Nonce overrides the managed nonce. Use with care; a reused nonce replaces the earlier
	// transaction instead of joining it.
	Nonce *uint64
}

// Contract is a parsed ABI bound to a deployed address and a backend. The binding itself is
// stateless and safe for concurrent use; all state lives behind the backend.
type Contract struct {
	address types.Address
	abi     *abi.ABI
	backend Backend
}

// NewContract binds a parsed ABI to a deployed contract address.
func NewContract(address types.Address, contractABI *abi.ABI, backend Backend) *Contract {
	return &Contract{address: address, abi: contractABI, backend: backend}
}

// Address returns the bound contract address.
func (c *Contract) Address() types.Address {
	return c.address
}

// ABI returns the bound interface description.
func (c *Contract) ABI() *abi.ABI {
	return c.abi
}

// resolveMethod locates the method for an invocation. A full canonical signature resolves
// directly; a bare name resolves through its overload set, where exactly one overload must accept
// the given argument count and shapes.
func (c *Contract) resolveMethod(method string, values []interface{}) (*abi.Method, []byte, error) {
	if strings.Contains(method, "(") {
		m := c.abi.MethodBySig(method)
		if m == nil {
			return nil, nil, &MethodNotFoundError{Name: method, ArgCount: -1}
		}
		encoded, err := m.Inputs.Pack(values...)
		if err != nil {
			return nil, nil, err
		}
		return m, encoded, nil
	}

	overloads := c.abi.MethodsByName(method)
	if len(overloads) == 0 {
		return nil, nil, &MethodNotFoundError{Name: method, ArgCount: -1}
	}

	// Try each overload with a matching arity; the argument shapes decide among them.
	var matched *abi.Method
	var matchedData []byte
	var candidates []string
	var arityMatches int
	var lastPackErr error
	for _, m := range overloads {
		if len(m.Inputs) != len(values) {
			continue
		}
		arityMatches++
		encoded, err := m.Inputs.Pack(values...)
		if err != nil {
			lastPackErr = err
			continue
		}
		candidates = append(candidates, m.Sig)
		matched, matchedData = m, encoded
	}
	switch len(candidates) {
	case 0:
		// A single arity match that failed to pack carries a more precise error than "not found".
		if arityMatches == 1 {
			return nil, nil, lastPackErr
		}
		return nil, nil, &MethodNotFoundError{Name: method, ArgCount: len(values)}
	case 1:
		return matched, matchedData, nil
	default:
		return nil, nil, &AmbiguousOverloadError{Name: method, Candidates: candidates}
	}
}

// BuildCallData validates the arguments and returns the complete call data: the 4-byte selector
// followed by the encoded argument tuple. No network access is involved; validation failures
// surface here, before any submission.
func (c *Contract) BuildCallData(method string, args ...interface{}) ([]byte, error) {
	m, encoded, err := c.resolveMethod(method, args)
	if err != nil {
		return nil, err
	}
	return append(m.ID[:], encoded...), nil
}

// Call executes a read-only invocation and decodes its return values. A call never consumes a
// nonce and never reaches the signer. Empty return data where the method declares outputs fails
// with EmptyReturnDataError.
func (c *Contract) Call(ctx context.Context, opts *CallOpts, method string, args ...interface{}) ([]interface{}, error) {
	m, encoded, err := c.resolveMethod(method, args)
	if err != nil {
		return nil, err
	}

	tx := types.NewTransactionRequest().WithTo(c.address).WithData(append(m.ID[:], encoded...))
	block := types.LatestBlock
	if opts != nil {
		if opts.From != nil {
			tx.WithFrom(*opts.From)
		}
		if opts.Block != nil {
			block = *opts.Block
		}
	}

	ret, err := c.backend.CallContract(ctx, tx, block)
	if err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		if len(m.Outputs) == 0 {
			return nil, nil
		}
		return nil, &EmptyReturnDataError{Method: m.Sig}
	}
	return m.Outputs.Unpack(ret)
}

// Transact submits a state-changing invocation through the backend's middleware stack and returns
// a watchable handle.
func (c *Contract) Transact(ctx context.Context, opts *TransactOpts, method string, args ...interface{}) (*providers.PendingTransaction, error) {
	m, encoded, err := c.resolveMethod(method, args)
	if err != nil {
		return nil, err
	}

	tx := types.NewTransactionRequest().WithTo(c.address).WithData(append(m.ID[:], encoded...))
	applyTransactOpts(tx, opts)
	return c.backend.SendTransaction(ctx, tx)
}

// applyTransactOpts copies explicit overrides onto the request.
func applyTransactOpts(tx *types.TransactionRequest, opts *TransactOpts) {
	if opts == nil {
		return
	}
	if opts.From != nil {
		tx.WithFrom(*opts.From)
	}
	if opts.Value != nil {
		tx.WithValue(opts.Value)
	}
	if opts.EnergyLimit != nil {
		tx.WithEnergyLimit(*opts.EnergyLimit)
	}
	if opts.EnergyPrice != nil {
		tx.WithEnergyPrice(opts.EnergyPrice)
	}
	if opts.Nonce != nil {
		tx.WithNonce(*opts.Nonce)
	}
}

// BuildDeployData returns the init payload of a contract creation: the compiled bytecode followed
// by the encoded constructor arguments. An ABI without a declared constructor accepts no
// arguments.
func BuildDeployData(contractABI *abi.ABI, bytecode []byte, args ...interface{}) ([]byte, error) {
	var inputs abi.Arguments
	if contractABI.Constructor != nil {
		inputs = contractABI.Constructor.Inputs
	}
	encoded, err := inputs.Pack(args...)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, bytecode...), encoded...), nil
}

// Deploy submits a contract creation transaction and returns the watchable handle along with a
// binding for the eventual deployment address, which the caller reads from the mined receipt.
func Deploy(ctx context.Context, backend Backend, opts *TransactOpts, contractABI *abi.ABI, bytecode []byte, args ...interface{}) (*providers.PendingTransaction, error) {
	data, err := BuildDeployData(contractABI, bytecode, args...)
	if err != nil {
		return nil, err
	}
	tx := types.NewTransactionRequest().WithData(data)
	applyTransactOpts(tx, opts)
	return backend.SendTransaction(ctx, tx)
}
