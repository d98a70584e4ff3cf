package types

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// SignatureLength is the byte length of a transaction signature: a 114-byte Ed448 signature
// followed by the signer's 57-byte public key.
const SignatureLength = 171

// Signature represents an Ed448 transaction or message signature with the recovery public key
// appended, as carried on the wire.
type Signature [SignatureLength]byte

// NewSignature assembles a Signature from a raw 114-byte Ed448 signature and a 57-byte public key.
func NewSignature(sig []byte, publicKey []byte) (Signature, error) {
	var s Signature
	if len(sig)+len(publicKey) != SignatureLength {
		return s, errors.Errorf("invalid signature component lengths: %d + %d, want %d total", len(sig), len(publicKey), SignatureLength)
	}
	copy(s[:], sig)
	copy(s[len(sig):], publicKey)
	return s, nil
}

// ParseSignature parses a signature from its hex representation, with or without a leading "0x".
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return sig, errors.Wrap(err, "invalid signature encoding")
	}
	if len(b) != SignatureLength {
		return sig, errors.Errorf("invalid signature length: got %d bytes, want %d", len(b), SignatureLength)
	}
	copy(sig[:], b)
	return sig, nil
}

// SignatureBytes returns the 114-byte Ed448 signature portion.
func (s Signature) SignatureBytes() []byte {
	return s[:114]
}

// PublicKey returns the 57-byte Ed448 public key portion.
func (s Signature) PublicKey() []byte {
	return s[114:]
}

// Bytes returns the full 171-byte signature.
func (s Signature) Bytes() []byte {
	return s[:]
}

// String returns the 0x-prefixed hex representation of the signature.
func (s Signature) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// TransactionRequest describes the parameters of a call or transaction to be submitted to the
// network. Nil fields are treated as "unset" and are filled in by the middleware stack before
// signing: the oracle layer fills energy price and limit, the nonce manager fills the nonce, and
// the signer fills the sender and network id.
type TransactionRequest struct {
	// From is the sending address. Read-only calls may leave it unset.
	From *Address `json:"from,omitempty"`

	// To is the recipient address. A nil recipient indicates contract creation.
	To *Address `json:"to,omitempty"`

	// Nonce is the sender's transaction count at submission. Assigned by the nonce manager when
	// unset.
	Nonce *uint64 `json:"-"`

	// EnergyLimit is the maximum amount of energy the sender is willing to spend executing the
	// transaction.
	EnergyLimit *uint64 `json:"-"`

	// EnergyPrice is the price the sender is willing to pay per unit of energy.
	EnergyPrice *big.Int `json:"-"`

	// Value is the amount of ore transferred to the recipient.
	Value *big.Int `json:"-"`

	// Data is the call data: a 4-byte selector followed by ABI-encoded arguments, or contract
	// init code when To is nil.
	Data Bytes `json:"-"`

	// NetworkID is the replay-protection network id mixed into the sighash. Filled by the signer
	// layer from the connected node when unset.
	NetworkID *uint64 `json:"-"`
}

// NewTransactionRequest creates an empty transaction request with all fields left unset.
func NewTransactionRequest() *TransactionRequest {
	return &TransactionRequest{}
}

// Pay is a convenience constructor for a plain value transfer to the given recipient.
func Pay(to Address, value *big.Int) *TransactionRequest {
	return &TransactionRequest{To: &to, Value: value}
}

// WithFrom sets the sender address and returns the request for chaining.
func (tx *TransactionRequest) WithFrom(from Address) *TransactionRequest {
	tx.From = &from
	return tx
}

// WithTo sets the recipient address and returns the request for chaining.
func (tx *TransactionRequest) WithTo(to Address) *TransactionRequest {
	tx.To = &to
	return tx
}

// WithNonce sets the nonce and returns the request for chaining.
func (tx *TransactionRequest) WithNonce(nonce uint64) *TransactionRequest {
	tx.Nonce = &nonce
	return tx
}

// WithEnergyLimit sets the energy limit and returns the request for chaining.
func (tx *TransactionRequest) WithEnergyLimit(limit uint64) *TransactionRequest {
	tx.EnergyLimit = &limit
	return tx
}

// WithEnergyPrice sets the energy price and returns the request for chaining.
func (tx *TransactionRequest) WithEnergyPrice(price *big.Int) *TransactionRequest {
	tx.EnergyPrice = new(big.Int).Set(price)
	return tx
}

// WithValue sets the transferred value and returns the request for chaining.
func (tx *TransactionRequest) WithValue(value *big.Int) *TransactionRequest {
	tx.Value = new(big.Int).Set(value)
	return tx
}

// WithData sets the call data and returns the request for chaining.
func (tx *TransactionRequest) WithData(data []byte) *TransactionRequest {
	tx.Data = data
	return tx
}

// WithNetworkID sets the network id and returns the request for chaining.
func (tx *TransactionRequest) WithNetworkID(id uint64) *TransactionRequest {
	tx.NetworkID = &id
	return tx
}

// Clone returns a deep copy of the request. The escalator relies on this to rebuild the same
// logical transaction with a different price without mutating the caller's request.
func (tx *TransactionRequest) Clone() *TransactionRequest {
	clone := &TransactionRequest{}
	if tx.From != nil {
		from := *tx.From
		clone.From = &from
	}
	if tx.To != nil {
		to := *tx.To
		clone.To = &to
	}
	if tx.Nonce != nil {
		nonce := *tx.Nonce
		clone.Nonce = &nonce
	}
	if tx.EnergyLimit != nil {
		limit := *tx.EnergyLimit
		clone.EnergyLimit = &limit
	}
	if tx.EnergyPrice != nil {
		clone.EnergyPrice = new(big.Int).Set(tx.EnergyPrice)
	}
	if tx.Value != nil {
		clone.Value = new(big.Int).Set(tx.Value)
	}
	if tx.Data != nil {
		clone.Data = append(Bytes{}, tx.Data...)
	}
	if tx.NetworkID != nil {
		id := *tx.NetworkID
		clone.NetworkID = &id
	}
	return clone
}

// MarshalJSON encodes the request as the JSON object expected by xcb_call, xcb_estimateEnergy and
// related RPC methods, omitting unset fields.
func (tx *TransactionRequest) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any)
	if tx.From != nil {
		obj["from"] = tx.From
	}
	if tx.To != nil {
		obj["to"] = tx.To
	}
	if tx.Nonce != nil {
		obj["nonce"] = hexutil.Uint64(*tx.Nonce)
	}
	if tx.EnergyLimit != nil {
		obj["energy"] = hexutil.Uint64(*tx.EnergyLimit)
	}
	if tx.EnergyPrice != nil {
		obj["energyPrice"] = (*hexutil.Big)(tx.EnergyPrice)
	}
	if tx.Value != nil {
		obj["value"] = (*hexutil.Big)(tx.Value)
	}
	if len(tx.Data) > 0 {
		obj["data"] = tx.Data
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes a request from its RPC JSON object form.
func (tx *TransactionRequest) UnmarshalJSON(input []byte) error {
	var obj struct {
		From        *Address        `json:"from"`
		To          *Address        `json:"to"`
		Nonce       *hexutil.Uint64 `json:"nonce"`
		EnergyLimit *hexutil.Uint64 `json:"energy"`
		EnergyPrice *hexutil.Big    `json:"energyPrice"`
		Value       *hexutil.Big    `json:"value"`
		Data        *Bytes          `json:"data"`
	}
	if err := json.Unmarshal(input, &obj); err != nil {
		return errors.Wrap(err, "invalid transaction request")
	}
	tx.From = obj.From
	tx.To = obj.To
	if obj.Nonce != nil {
		nonce := uint64(*obj.Nonce)
		tx.Nonce = &nonce
	}
	if obj.EnergyLimit != nil {
		limit := uint64(*obj.EnergyLimit)
		tx.EnergyLimit = &limit
	}
	if obj.EnergyPrice != nil {
		tx.EnergyPrice = (*big.Int)(obj.EnergyPrice)
	}
	if obj.Value != nil {
		tx.Value = (*big.Int)(obj.Value)
	}
	if obj.Data != nil {
		tx.Data = *obj.Data
	}
	return nil
}

// txSigningPayload is the RLP layout of the signing preimage: the six transaction fields followed
// by the network id and two zero placeholders reserving the signature slots.
type txSigningPayload struct {
	Nonce       uint64
	EnergyPrice *big.Int
	EnergyLimit uint64
	To          *Address
	Value       *big.Int
	Data        []byte
	NetworkID   uint64
	ZeroA       uint
	ZeroB       uint
}

// txSignedPayload is the RLP layout of a broadcast-ready transaction: the six transaction fields,
// the network id, and the 171-byte signature blob.
type txSignedPayload struct {
	Nonce       uint64
	EnergyPrice *big.Int
	EnergyLimit uint64
	To          *Address
	Value       *big.Int
	Data        []byte
	NetworkID   uint64
	Signature   []byte
}

// normalized returns the request's RLP-encodable field values with nil numeric fields treated as
// zero.
func (tx *TransactionRequest) normalized() (nonce uint64, price *big.Int, limit uint64, value *big.Int) {
	price = big.NewInt(0)
	value = big.NewInt(0)
	if tx.Nonce != nil {
		nonce = *tx.Nonce
	}
	if tx.EnergyPrice != nil {
		price = tx.EnergyPrice
	}
	if tx.EnergyLimit != nil {
		limit = *tx.EnergyLimit
	}
	if tx.Value != nil {
		value = tx.Value
	}
	return nonce, price, limit, value
}

// SigningRLP returns the RLP encoding of the transaction's signing preimage. The network id must
// be populated before signing; replay protection is not optional on Core networks.
func (tx *TransactionRequest) SigningRLP() ([]byte, error) {
	if tx.NetworkID == nil {
		return nil, errors.New("cannot compute sighash: network id is not set")
	}
	nonce, price, limit, value := tx.normalized()
	encoded, err := rlp.EncodeToBytes(&txSigningPayload{
		Nonce:       nonce,
		EnergyPrice: price,
		EnergyLimit: limit,
		To:          tx.To,
		Value:       value,
		Data:        tx.Data,
		NetworkID:   *tx.NetworkID,
	})
	return encoded, errors.Wrap(err, "rlp encoding failed")
}

// Sighash returns the SHA3-256 digest the sender signs to authorize this transaction.
func (tx *TransactionRequest) Sighash() (Hash, error) {
	encoded, err := tx.SigningRLP()
	if err != nil {
		return Hash{}, err
	}
	return BytesToHash(sha3Sum256(encoded)), nil
}

// SignedRLP returns the broadcast-ready RLP encoding of the transaction with its signature
// attached, as submitted via xcb_sendRawTransaction.
func (tx *TransactionRequest) SignedRLP(sig Signature) ([]byte, error) {
	if tx.NetworkID == nil {
		return nil, errors.New("cannot encode signed transaction: network id is not set")
	}
	nonce, price, limit, value := tx.normalized()
	encoded, err := rlp.EncodeToBytes(&txSignedPayload{
		Nonce:       nonce,
		EnergyPrice: price,
		EnergyLimit: limit,
		To:          tx.To,
		Value:       value,
		Data:        tx.Data,
		NetworkID:   *tx.NetworkID,
		Signature:   sig.Bytes(),
	})
	return encoded, errors.Wrap(err, "rlp encoding failed")
}

// SignedHash returns the transaction identifier of the signed transaction: the SHA3-256 digest of
// its broadcast encoding.
func (tx *TransactionRequest) SignedHash(sig Signature) (Hash, error) {
	encoded, err := tx.SignedRLP(sig)
	if err != nil {
		return Hash{}, err
	}
	return BytesToHash(sha3Sum256(encoded)), nil
}

// sha3Sum256 returns the FIPS-202 SHA3-256 digest of data, the identifier hash of Core networks.
func sha3Sum256(data []byte) []byte {
	h := sha3.New256()
	h.Write(data)
	return h.Sum(nil)
}

// Transaction describes a transaction as reported by a node, including its inclusion position
// once mined.
type Transaction struct {
	// Hash is the transaction identifier.
	Hash Hash `json:"hash"`

	// From is the sender recovered from the signature.
	From Address `json:"from"`

	// To is the recipient. Nil indicates contract creation.
	To *Address `json:"to"`

	// Nonce is the sender's nonce consumed by this transaction.
	Nonce hexutil.Uint64 `json:"nonce"`

	// EnergyLimit is the energy ceiling the sender supplied.
	EnergyLimit hexutil.Uint64 `json:"energy"`

	// EnergyPrice is the per-unit energy price offered.
	EnergyPrice *hexutil.Big `json:"energyPrice"`

	// Value is the transferred amount in ore.
	Value *hexutil.Big `json:"value"`

	// Input is the call data carried by the transaction.
	Input Bytes `json:"input"`

	// BlockHash is the including block's hash, or nil while the transaction is pending.
	BlockHash *Hash `json:"blockHash"`

	// BlockNumber is the including block's height, or nil while the transaction is pending.
	BlockNumber *hexutil.Uint64 `json:"blockNumber"`

	// TransactionIndex is the transaction's position within its block, or nil while pending.
	TransactionIndex *hexutil.Uint64 `json:"transactionIndex"`
}

// Pending reports whether the transaction has not yet been included in a block.
func (t *Transaction) Pending() bool {
	return t.BlockNumber == nil
}
