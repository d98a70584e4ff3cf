package providers

import (
	"context"
	"sync"
	"time"

	"github.com/corebc/go-corebc/types"
	"github.com/pkg/errors"
)

// WatchConfig controls how a PendingTransaction tracks its inclusion. All three parameters are
// required; there are no implied defaults for decisions this consequential.
type WatchConfig struct {
	// ConfirmationDepth is the number of blocks that must be built on top of the including block
	// (inclusive) before the transaction counts as confirmed. A depth of one accepts inclusion
	// itself.
	ConfirmationDepth uint64

	// PollInterval is the delay between receipt polls.
	PollInterval time.Duration

	// Deadline bounds the total watch duration. When it elapses before confirmation, Wait returns
	// ErrTimedOut; the transaction may still be mined afterwards.
	Deadline time.Duration
}

// validate rejects zero-valued configuration fields.
func (c WatchConfig) validate() error {
	if c.ConfirmationDepth == 0 {
		return errors.New("providers: watch confirmation depth must be at least one block")
	}
	if c.PollInterval <= 0 {
		return errors.New("providers: watch poll interval must be positive")
	}
	if c.Deadline <= 0 {
		return errors.New("providers: watch deadline must be positive")
	}
	return nil
}

// receiptQuerier is the read surface the watcher needs. Every Middleware satisfies it.
type receiptQuerier interface {
	BlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, hash types.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash types.Hash) (*types.Transaction, error)
}

// PendingTransaction is a watchable handle for a broadcast transaction. A fee escalation layer may
// rebroadcast the same logical transaction under new hashes; every such attempt hash is registered
// on the handle so the watcher recognizes whichever variant the chain eventually includes.
type PendingTransaction struct {
	querier receiptQuerier
	watch   WatchConfig

	// events, when set, receives the watcher's terminal transitions. Attached by the escalation
	// layer so watch outcomes reach the same subscribers as its broadcast events.
	events       *Emitter[SubmissionEvent]
	submissionID string

	// hashesLock guards hashes, which grows as escalation attempts are broadcast.
	hashesLock sync.Mutex
	hashes     []types.Hash
}

// newPendingTransaction constructs a handle for a freshly broadcast transaction.
func newPendingTransaction(querier receiptQuerier, hash types.Hash, watch WatchConfig) *PendingTransaction {
	return &PendingTransaction{
		querier: querier,
		watch:   watch,
		hashes:  []types.Hash{hash},
	}
}

// Hash returns the hash of the first broadcast attempt, the transaction's identity from the
// caller's point of view.
func (p *PendingTransaction) Hash() types.Hash {
	p.hashesLock.Lock()
	defer p.hashesLock.Unlock()
	return p.hashes[0]
}

// Hashes returns every broadcast attempt hash in submission order.
func (p *PendingTransaction) Hashes() []types.Hash {
	p.hashesLock.Lock()
	defer p.hashesLock.Unlock()
	out := make([]types.Hash, len(p.hashes))
	copy(out, p.hashes)
	return out
}

// addAttempt registers the hash of a rebroadcast variant of this transaction.
func (p *PendingTransaction) addAttempt(hash types.Hash) {
	p.hashesLock.Lock()
	defer p.hashesLock.Unlock()
	p.hashes = append(p.hashes, hash)
}

// trackLifecycle attaches an emitter and submission id so the watcher's terminal states are
// published alongside the broadcast events of the same submission.
func (p *PendingTransaction) trackLifecycle(events *Emitter[SubmissionEvent], submissionID string) {
	p.events = events
	p.submissionID = submissionID
}

// publishOutcome reports a terminal watch state to the attached emitter, if any.
func (p *PendingTransaction) publishOutcome(kind SubmissionEventType, hash types.Hash) {
	if p.events == nil {
		return
	}
	p.events.Publish(SubmissionEvent{
		Type:         kind,
		SubmissionID: p.submissionID,
		Hash:         hash,
		Attempt:      len(p.Hashes()),
	})
}

// Wait polls until one attempt hash is mined and buried under the configured confirmation depth,
// then returns its receipt. It returns ErrTimedOut when the deadline elapses first, ErrDropped
// when the node stops knowing every attempt hash without having mined one, and the context error
// when the caller cancels. Cancellation stops this watch only; the transaction itself, and any
// escalation monitor rebroadcasting it, are unaffected. Confirmation, drop and timeout are also
// published to the submission's lifecycle emitter when one is attached.
func (p *PendingTransaction) Wait(ctx context.Context) (*types.Receipt, error) {
	deadline := time.NewTimer(p.watch.Deadline)
	defer deadline.Stop()
	ticker := time.NewTicker(p.watch.PollInterval)
	defer ticker.Stop()

	// seen becomes true once the node has acknowledged any attempt hash; only then can a later
	// universal miss be interpreted as the pool dropping the transaction, rather than propagation
	// lag right after broadcast.
	seen := false

	for {
		receipt, known, err := p.poll(ctx)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			confirmed, err := p.isConfirmed(ctx, receipt)
			if err != nil {
				return nil, err
			}
			if confirmed {
				p.publishOutcome(SubmissionConfirmed, receipt.TxHash)
				return receipt, nil
			}
		} else if known {
			seen = true
		} else if seen {
			p.publishOutcome(SubmissionDropped, p.Hash())
			return nil, ErrDropped
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			p.publishOutcome(SubmissionTimedOut, p.Hash())
			return nil, ErrTimedOut
		case <-ticker.C:
		}
	}
}

// poll checks every attempt hash once, returning the first receipt found and whether any hash is
// still known to the node.
func (p *PendingTransaction) poll(ctx context.Context) (*types.Receipt, bool, error) {
	known := false
	for _, hash := range p.Hashes() {
		receipt, err := p.querier.TransactionReceipt(ctx, hash)
		if err != nil {
			return nil, false, err
		}
		if receipt != nil {
			return receipt, true, nil
		}
		tx, err := p.querier.TransactionByHash(ctx, hash)
		if err != nil {
			return nil, false, err
		}
		if tx != nil {
			known = true
		}
	}
	return nil, known, nil
}

// isConfirmed reports whether the mined receipt has reached the configured confirmation depth.
func (p *PendingTransaction) isConfirmed(ctx context.Context, receipt *types.Receipt) (bool, error) {
	head, err := p.querier.BlockNumber(ctx)
	if err != nil {
		return false, err
	}
	minedAt := uint64(receipt.BlockNumber)
	if head < minedAt {
		// A reorg moved the head behind the receipt; treat as unconfirmed and keep polling.
		return false, nil
	}
	return head-minedAt+1 >= p.watch.ConfirmationDepth, nil
}
