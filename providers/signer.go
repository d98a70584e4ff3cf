package providers

import (
	"context"

	"github.com/corebc/go-corebc/crypto"
	"github.com/corebc/go-corebc/logging"
	"github.com/corebc/go-corebc/types"
)

// SignerMiddleware signs outgoing transactions with a crypto.Signer and submits them as raw
// payloads, so the node never needs account management. It fills the sender from the signing
// identity and the network id from the connection before computing the sighash.
//
// A signing capability failure is wrapped in crypto.SigningError and is always fatal for that
// submission; no layer retries a digest the signer refused.
type SignerMiddleware struct {
	passthrough
	signer crypto.Signer
	logger *logging.Logger
}

// NewSignerMiddleware wraps inner with local transaction signing.
func NewSignerMiddleware(inner Middleware, signer crypto.Signer) *SignerMiddleware {
	return &SignerMiddleware{
		passthrough: passthrough{inner: inner},
		signer:      signer,
		logger:      logging.GlobalLogger.NewSubLogger("module", "signer"),
	}
}

// Address returns the middleware's signing identity.
func (m *SignerMiddleware) Address() types.Address {
	return m.signer.Address()
}

// FillTransaction implements Middleware, populating the sender from the signing identity.
func (m *SignerMiddleware) FillTransaction(ctx context.Context, tx *types.TransactionRequest) error {
	if tx.From == nil {
		tx.WithFrom(m.signer.Address())
	}
	return m.inner.FillTransaction(ctx, tx)
}

// SendTransaction implements Middleware: fill, sign the sighash, and broadcast the signed payload.
func (m *SignerMiddleware) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*PendingTransaction, error) {
	if err := m.FillTransaction(ctx, tx); err != nil {
		return nil, err
	}

	sighash, err := tx.Sighash()
	if err != nil {
		return nil, err
	}
	sig, err := m.signer.SignDigest(sighash)
	if err != nil {
		return nil, &crypto.SigningError{Signer: m.signer.Address(), Err: err}
	}
	raw, err := tx.SignedRLP(sig)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("signed transaction", logging.StructuredLogInfo{
		"signer":  m.signer.Address().String(),
		"sighash": sighash.String(),
	})
	return m.inner.SendRawTransaction(ctx, raw)
}
