package providers

import (
	"context"
	"sync"

	"github.com/corebc/go-corebc/types"
)

// NonceManager assigns strictly increasing nonces per sender. Each account's counter is seeded
// lazily from the node's pending transaction count and then advanced locally, so concurrent
// submitters never observe the same nonce twice. Read-only calls pass through untouched; a call
// never consumes a nonce.
type NonceManager struct {
	passthrough

	// accountsLock guards the accounts map itself; each account carries its own lock so that
	// different senders never contend with each other.
	accountsLock sync.Mutex
	accounts     map[types.Address]*nonceAccount
}

// nonceAccount is one sender's counter state.
type nonceAccount struct {
	lock   sync.Mutex
	seeded bool
	next   uint64
}

// NewNonceManager wraps inner with local nonce assignment.
func NewNonceManager(inner Middleware) *NonceManager {
	return &NonceManager{
		passthrough: passthrough{inner: inner},
		accounts:    make(map[types.Address]*nonceAccount),
	}
}

// account returns the counter state for addr, creating it on first use.
func (m *NonceManager) account(addr types.Address) *nonceAccount {
	m.accountsLock.Lock()
	defer m.accountsLock.Unlock()
	acct, ok := m.accounts[addr]
	if !ok {
		acct = &nonceAccount{}
		m.accounts[addr] = acct
	}
	return acct
}

// NextNonce reserves and returns the next nonce for addr. The read-and-increment is a single
// critical section, so N concurrent reservations yield exactly the values base..base+N-1, each
// once.
func (m *NonceManager) NextNonce(ctx context.Context, addr types.Address) (uint64, error) {
	acct := m.account(addr)
	acct.lock.Lock()
	defer acct.lock.Unlock()
	if !acct.seeded {
		pending, err := m.inner.PendingNonceAt(ctx, addr)
		if err != nil {
			return 0, err
		}
		acct.next = pending
		acct.seeded = true
	}
	nonce := acct.next
	acct.next++
	return nonce, nil
}

// Resync discards the local counter for addr so the next reservation re-reads the node. Callers
// use it after a submission failed in a way that makes the local counter untrustworthy, such as a
// nonce-too-low rejection from a competing sender.
func (m *NonceManager) Resync(addr types.Address) {
	acct := m.account(addr)
	acct.lock.Lock()
	defer acct.lock.Unlock()
	acct.seeded = false
	acct.next = 0
}

// FillTransaction implements Middleware, reserving a nonce for the sender when none is set.
func (m *NonceManager) FillTransaction(ctx context.Context, tx *types.TransactionRequest) error {
	if err := m.fillNonce(ctx, tx); err != nil {
		return err
	}
	return m.inner.FillTransaction(ctx, tx)
}

// SendTransaction implements Middleware, reserving a nonce before delegating the submission.
func (m *NonceManager) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*PendingTransaction, error) {
	if err := m.fillNonce(ctx, tx); err != nil {
		return nil, err
	}
	return m.inner.SendTransaction(ctx, tx)
}

// fillNonce reserves a nonce for the request's sender when the request does not carry one. The
// sender must already be known; stacks place the nonce manager outside the signer, which is the
// layer that would fill a missing sender.
func (m *NonceManager) fillNonce(ctx context.Context, tx *types.TransactionRequest) error {
	if tx.Nonce != nil {
		return nil
	}
	addr, err := m.senderOf(ctx, tx)
	if err != nil {
		return err
	}
	nonce, err := m.NextNonce(ctx, addr)
	if err != nil {
		return err
	}
	tx.WithNonce(nonce)
	return nil
}

// senderOf resolves the account a nonce should be reserved for: the explicit sender when set,
// otherwise the default signing identity of an inner signer layer.
func (m *NonceManager) senderOf(ctx context.Context, tx *types.TransactionRequest) (types.Address, error) {
	if tx.From != nil {
		return *tx.From, nil
	}
	// Let the inner layers resolve the sender without consuming this layer's state.
	probe := tx.Clone()
	if err := m.inner.FillTransaction(ctx, probe); err != nil {
		return types.Address{}, err
	}
	if probe.From == nil {
		return types.Address{}, errNoSender
	}
	tx.From = probe.From
	return *probe.From, nil
}
