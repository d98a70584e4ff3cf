package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Receipt status codes reported by nodes.
const (
	// ReceiptStatusFailed marks a transaction whose execution reverted.
	ReceiptStatusFailed = uint64(0)
	// ReceiptStatusSuccessful marks a transaction whose execution succeeded.
	ReceiptStatusSuccessful = uint64(1)
)

// Log represents a contract event emitted during transaction execution, as returned by node log
// queries. Logs are immutable once received.
type Log struct {
	// Address is the contract that emitted the log.
	Address Address `json:"address"`

	// Topics holds the indexed words of the log. Topic 0 is the event selector unless the event
	// is anonymous.
	Topics []Hash `json:"topics"`

	// Data holds the ABI encoding of the event's non-indexed parameters.
	Data Bytes `json:"data"`

	// BlockNumber is the height of the block containing the log.
	BlockNumber hexutil.Uint64 `json:"blockNumber"`

	// TxHash identifies the transaction that produced the log.
	TxHash Hash `json:"transactionHash"`

	// TxIndex is the transaction's position within its block.
	TxIndex hexutil.Uint64 `json:"transactionIndex"`

	// BlockHash is the hash of the block containing the log.
	BlockHash Hash `json:"blockHash"`

	// Index is the log's position within the block.
	Index hexutil.Uint64 `json:"logIndex"`

	// Removed is true when the log was reverted due to a chain reorganization.
	Removed bool `json:"removed"`
}

// Receipt represents the outcome of a mined transaction.
type Receipt struct {
	// TxHash is the identifier of the transaction this receipt belongs to.
	TxHash Hash `json:"transactionHash"`

	// TxIndex is the transaction's position within its block.
	TxIndex hexutil.Uint64 `json:"transactionIndex"`

	// BlockHash is the hash of the including block.
	BlockHash Hash `json:"blockHash"`

	// BlockNumber is the height of the including block.
	BlockNumber hexutil.Uint64 `json:"blockNumber"`

	// From is the transaction sender.
	From Address `json:"from"`

	// To is the transaction recipient, nil for contract creation.
	To *Address `json:"to"`

	// ContractAddress is the address of the created contract, when the transaction deployed one.
	ContractAddress *Address `json:"contractAddress"`

	// Status is 1 on success and 0 on revert.
	Status hexutil.Uint64 `json:"status"`

	// EnergyUsed is the amount of energy consumed by this transaction alone.
	EnergyUsed hexutil.Uint64 `json:"energyUsed"`

	// CumulativeEnergyUsed is the total energy consumed in the block up to and including this
	// transaction.
	CumulativeEnergyUsed hexutil.Uint64 `json:"cumulativeEnergyUsed"`

	// EffectiveEnergyPrice is the per-unit price actually charged.
	EffectiveEnergyPrice *hexutil.Big `json:"effectiveEnergyPrice"`

	// Logs are the events emitted during execution.
	Logs []Log `json:"logs"`
}

// Successful reports whether the transaction executed without reverting.
func (r *Receipt) Successful() bool {
	return uint64(r.Status) == ReceiptStatusSuccessful
}
