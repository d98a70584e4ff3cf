package types

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// BlockNumber represents a block height or one of the symbolic tags accepted by RPC methods.
type BlockNumber int64

const (
	// LatestBlock designates the most recent mined block.
	LatestBlock BlockNumber = -1
	// PendingBlock designates the pending, not yet mined state.
	PendingBlock BlockNumber = -2
	// EarliestBlock designates the genesis block.
	EarliestBlock BlockNumber = -3
)

// BlockAt returns a BlockNumber designating an explicit height.
func BlockAt(height uint64) BlockNumber {
	return BlockNumber(height)
}

// MarshalJSON encodes the block number as its RPC representation: a symbolic tag or a hex
// quantity.
func (bn BlockNumber) MarshalJSON() ([]byte, error) {
	switch bn {
	case LatestBlock:
		return json.Marshal("latest")
	case PendingBlock:
		return json.Marshal("pending")
	case EarliestBlock:
		return json.Marshal("earliest")
	default:
		if bn < 0 {
			return nil, errors.Errorf("invalid block number: %d", bn)
		}
		return json.Marshal(hexutil.Uint64(bn))
	}
}

// FilterQuery describes a log query: an optional address set, an optional block range, and
// per-slot topic constraints. An empty topic slot matches any value; multiple hashes within a
// slot match any of them.
type FilterQuery struct {
	// BlockHash, when set, restricts the query to a single block and excludes the block range.
	BlockHash *Hash

	// FromBlock is the inclusive lower bound of the block range. Nil means genesis.
	FromBlock *BlockNumber

	// ToBlock is the inclusive upper bound of the block range. Nil means latest.
	ToBlock *BlockNumber

	// Addresses restricts matches to logs emitted by any of these contracts. Empty matches all.
	Addresses []Address

	// Topics holds per-slot constraints, outer position corresponding to topic position.
	Topics [][]Hash
}

// MarshalJSON encodes the filter as the JSON object expected by xcb_getLogs and xcb_newFilter.
func (q FilterQuery) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any)
	if q.BlockHash != nil {
		obj["blockHash"] = q.BlockHash
	} else {
		if q.FromBlock != nil {
			obj["fromBlock"] = q.FromBlock
		}
		if q.ToBlock != nil {
			obj["toBlock"] = q.ToBlock
		}
	}
	if len(q.Addresses) > 0 {
		obj["address"] = q.Addresses
	}
	if len(q.Topics) > 0 {
		// Trailing wildcard slots are preserved as nulls so topic positions stay aligned.
		topics := make([]any, len(q.Topics))
		for i, slot := range q.Topics {
			switch len(slot) {
			case 0:
				topics[i] = nil
			case 1:
				topics[i] = slot[0]
			default:
				topics[i] = slot
			}
		}
		obj["topics"] = topics
	}
	return json.Marshal(obj)
}

// Block describes the block header fields this library consumes when tracking confirmations.
type Block struct {
	// Hash is the block hash.
	Hash Hash `json:"hash"`

	// Number is the block height.
	Number hexutil.Uint64 `json:"number"`

	// ParentHash is the parent block's hash.
	ParentHash Hash `json:"parentHash"`

	// Timestamp is the block's UNIX timestamp.
	Timestamp hexutil.Uint64 `json:"timestamp"`

	// EnergyLimit is the block's total energy allowance.
	EnergyLimit hexutil.Uint64 `json:"energyLimit"`

	// EnergyUsed is the energy consumed by all transactions in the block.
	EnergyUsed hexutil.Uint64 `json:"energyUsed"`
}

// BigFromHex parses a 0x-prefixed hex quantity into a big integer, as returned by RPC methods
// that yield bare quantities.
func BigFromHex(s string) (*big.Int, error) {
	v, err := hexutil.DecodeBig(s)
	return v, errors.Wrap(err, "invalid hex quantity")
}
