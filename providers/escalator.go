package providers

import (
	"context"
	"math/big"
	"time"

	"github.com/corebc/go-corebc/logging"
	"github.com/corebc/go-corebc/types"
	"github.com/corebc/go-corebc/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// EscalationPolicy computes the price of the next broadcast attempt. Implementations must return
// a price strictly greater than the previous one, or report false to end escalation at a ceiling.
type EscalationPolicy interface {
	// NextPrice returns the price for the next attempt given the previous attempt's price. The
	// second return value is false when the policy's ceiling has been reached.
	NextPrice(previous *big.Int) (*big.Int, bool)

	// Interval is the time to wait for inclusion before escalating again.
	Interval() time.Duration
}

// GeometricPrice multiplies the price by a coefficient on every escalation.
type GeometricPrice struct {
	// Coefficient is the per-attempt price multiplier. Must be greater than 1.
	Coefficient float64

	// EverySecs is the number of seconds to wait between attempts.
	EverySecs uint64

	// Max caps the price; nil means uncapped.
	Max *big.Int
}

// NextPrice implements EscalationPolicy.
func (p *GeometricPrice) NextPrice(previous *big.Int) (*big.Int, bool) {
	if p.Max != nil && previous.Cmp(p.Max) >= 0 {
		return nil, false
	}
	scaled := new(big.Float).Mul(big.NewFloat(p.Coefficient), new(big.Float).SetInt(previous))
	next, _ := scaled.Int(nil)
	// Rounding may leave the price unchanged for small values; escalation must always move.
	if next.Cmp(previous) <= 0 {
		next = new(big.Int).Add(previous, big.NewInt(1))
	}
	if p.Max != nil && next.Cmp(p.Max) > 0 {
		next = new(big.Int).Set(p.Max)
	}
	return next, true
}

// Interval implements EscalationPolicy.
func (p *GeometricPrice) Interval() time.Duration {
	return time.Duration(p.EverySecs) * time.Second
}

// LinearPrice adds a fixed increment to the price on every escalation.
type LinearPrice struct {
	// Increase is the per-attempt price increment in ore. Must be positive.
	Increase *big.Int

	// EverySecs is the number of seconds to wait between attempts.
	EverySecs uint64

	// Max caps the price; nil means uncapped.
	Max *big.Int
}

// NextPrice implements EscalationPolicy.
func (p *LinearPrice) NextPrice(previous *big.Int) (*big.Int, bool) {
	if p.Max != nil && previous.Cmp(p.Max) >= 0 {
		return nil, false
	}
	next := new(big.Int).Add(previous, p.Increase)
	if p.Max != nil && next.Cmp(p.Max) > 0 {
		next = new(big.Int).Set(p.Max)
	}
	if next.Cmp(previous) <= 0 {
		return nil, false
	}
	return next, true
}

// Interval implements EscalationPolicy.
func (p *LinearPrice) Interval() time.Duration {
	return time.Duration(p.EverySecs) * time.Second
}

// EnergyEscalator rebroadcasts stuck transactions at increasing prices. Every attempt of one
// logical transaction carries the same nonce, so at most one of them can ever be mined; only the
// price changes, and only upward. The escalator sits outside the signer, so each rebroadcast is
// re-signed by the inner stack, and it never re-enters the nonce manager.
//
// Read-only calls and node queries pass through untouched. Escalation applies to the send path
// only.
type EnergyEscalator struct {
	passthrough

	policy      EscalationPolicy
	maxAttempts int
	journal     *Journal
	logger      *logging.Logger

	// Events publishes lifecycle transitions of every tracked submission.
	Events Emitter[SubmissionEvent]
}

// NewEnergyEscalator wraps inner with price escalation. maxAttempts bounds the total number of
// broadcasts including the first. A nil journal disables persistence.
func NewEnergyEscalator(inner Middleware, policy EscalationPolicy, maxAttempts int, journal *Journal) (*EnergyEscalator, error) {
	if policy == nil {
		return nil, errors.New("providers: escalation policy is required")
	}
	if maxAttempts < 1 {
		return nil, errors.New("providers: escalation max attempts must be at least one")
	}
	return &EnergyEscalator{
		passthrough: passthrough{inner: inner},
		policy:      policy,
		maxAttempts: maxAttempts,
		journal:     journal,
		logger:      logging.GlobalLogger.NewSubLogger("module", "escalator"),
	}, nil
}

// SendTransaction implements Middleware. The request is fully filled before the first broadcast so
// the monitor can rebroadcast an identical transaction with only the price changed.
func (m *EnergyEscalator) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*PendingTransaction, error) {
	if err := m.inner.FillTransaction(ctx, tx); err != nil {
		return nil, err
	}
	if tx.From == nil || tx.Nonce == nil || tx.EnergyPrice == nil || tx.NetworkID == nil {
		return nil, errors.New("providers: escalator requires a fully filled transaction")
	}

	base := tx.Clone()
	pending, err := m.inner.SendTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	record := &SubmissionRecord{
		ID:          uuid.NewString(),
		Sender:      *base.From,
		Nonce:       *base.Nonce,
		Hashes:      []types.Hash{pending.Hash()},
		LastPrice:   base.EnergyPrice.String(),
		SubmittedAt: time.Now(),
	}
	if err := m.journal.Put(*base.NetworkID, record); err != nil {
		m.logger.Warn("failed to journal submission", err)
	}
	pending.trackLifecycle(&m.Events, record.ID)
	m.Events.Publish(SubmissionEvent{
		Type:         SubmissionBroadcast,
		SubmissionID: record.ID,
		Hash:         pending.Hash(),
		Attempt:      1,
	})

	// The monitor owns its own lifetime: cancelling the caller's context, or a watcher built on
	// the returned handle, must not stop escalation of an already-broadcast transaction.
	go m.monitor(context.Background(), base, pending, record)
	return pending, nil
}

// monitor rebroadcasts the transaction at the policy interval until one attempt is mined, the
// attempt budget is spent, or the policy ceiling is reached.
func (m *EnergyEscalator) monitor(ctx context.Context, base *types.TransactionRequest, pending *PendingTransaction, record *SubmissionRecord) {
	price := new(big.Int).Set(base.EnergyPrice)
	attempt := 1

	for {
		if !utils.SleepCtx(ctx, m.policy.Interval()) {
			return
		}

		hash, mined := m.minedAttempt(ctx, pending)
		if mined {
			if err := m.journal.Delete(*base.NetworkID, record.ID); err != nil {
				m.logger.Warn("failed to clear journaled submission", err)
			}
			m.Events.Publish(SubmissionEvent{
				Type:         SubmissionMined,
				SubmissionID: record.ID,
				Hash:         hash,
				Attempt:      attempt,
			})
			return
		}

		if attempt >= m.maxAttempts {
			m.Events.Publish(SubmissionEvent{
				Type:         SubmissionExhausted,
				SubmissionID: record.ID,
				Hash:         pending.Hash(),
				Attempt:      attempt,
			})
			return
		}
		next, ok := m.policy.NextPrice(price)
		if !ok {
			m.Events.Publish(SubmissionEvent{
				Type:         SubmissionExhausted,
				SubmissionID: record.ID,
				Hash:         pending.Hash(),
				Attempt:      attempt,
			})
			return
		}

		// Rebroadcast the same logical transaction: same nonce, same payload, higher price. The
		// inner stack re-signs it, producing a new attempt hash.
		retry := base.Clone().WithEnergyPrice(next)
		resent, err := m.inner.SendTransaction(ctx, retry)
		if err != nil {
			// A rejected rebroadcast usually means the original is about to be mined; keep
			// monitoring rather than giving up.
			m.logger.Debug("escalation rebroadcast rejected", err)
			continue
		}

		price = next
		attempt++
		pending.addAttempt(resent.Hash())
		record.Hashes = append(record.Hashes, resent.Hash())
		record.LastPrice = price.String()
		if err := m.journal.Put(*base.NetworkID, record); err != nil {
			m.logger.Warn("failed to journal submission", err)
		}
		m.Events.Publish(SubmissionEvent{
			Type:         SubmissionEscalated,
			SubmissionID: record.ID,
			Hash:         resent.Hash(),
			Attempt:      attempt,
		})
		m.logger.Debug("escalated transaction", logging.StructuredLogInfo{
			"submission": record.ID,
			"attempt":    attempt,
			"price":      price.String(),
		})
	}
}

// minedAttempt reports whether any attempt hash has a receipt, returning the mined hash.
func (m *EnergyEscalator) minedAttempt(ctx context.Context, pending *PendingTransaction) (types.Hash, bool) {
	for _, hash := range pending.Hashes() {
		receipt, err := m.inner.TransactionReceipt(ctx, hash)
		if err != nil {
			continue
		}
		if receipt != nil {
			return hash, true
		}
	}
	return types.Hash{}, false
}
