package providers

import (
	"context"
	"math/big"

	"github.com/corebc/go-corebc/types"
)

// EnergyOracle is the pricing capability consumed by the oracle middleware. Implementations may
// consult the node, an external fee service, or a fixed schedule.
type EnergyOracle interface {
	// SuggestEnergyPrice returns the price to attach to a transaction submitted now.
	SuggestEnergyPrice(ctx context.Context) (*big.Int, error)
}

// ProviderOracle sources prices from the connected node's own estimate.
type ProviderOracle struct {
	querier interface {
		EnergyPrice(ctx context.Context) (*big.Int, error)
	}
}

// NewProviderOracle constructs the default oracle over any middleware layer.
func NewProviderOracle(mw Middleware) *ProviderOracle {
	return &ProviderOracle{querier: mw}
}

// SuggestEnergyPrice implements EnergyOracle via xcb_energyPrice.
func (o *ProviderOracle) SuggestEnergyPrice(ctx context.Context) (*big.Int, error) {
	return o.querier.EnergyPrice(ctx)
}

// OracleMiddleware fills the fee fields of outgoing transactions: a missing energy price from its
// oracle and a missing energy limit from the node's execution estimate. Explicitly set fields are
// never overridden, so callers keep full control when they want it.
type OracleMiddleware struct {
	passthrough
	oracle EnergyOracle
}

// NewOracleMiddleware wraps inner with fee filling. A nil oracle uses the node's own price
// estimate.
func NewOracleMiddleware(inner Middleware, oracle EnergyOracle) *OracleMiddleware {
	if oracle == nil {
		oracle = NewProviderOracle(inner)
	}
	return &OracleMiddleware{passthrough: passthrough{inner: inner}, oracle: oracle}
}

// FillTransaction implements Middleware, populating the energy price and limit before delegating.
func (m *OracleMiddleware) FillTransaction(ctx context.Context, tx *types.TransactionRequest) error {
	if tx.EnergyPrice == nil {
		price, err := m.oracle.SuggestEnergyPrice(ctx)
		if err != nil {
			return err
		}
		tx.WithEnergyPrice(price)
	}
	if tx.EnergyLimit == nil {
		// The estimate simulates against current state, so price and value must be final first.
		limit, err := m.inner.EstimateEnergy(ctx, tx)
		if err != nil {
			return err
		}
		tx.WithEnergyLimit(limit)
	}
	return m.inner.FillTransaction(ctx, tx)
}

// SendTransaction implements Middleware, filling fee fields before delegating the submission.
func (m *OracleMiddleware) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*PendingTransaction, error) {
	if tx.EnergyPrice == nil {
		price, err := m.oracle.SuggestEnergyPrice(ctx)
		if err != nil {
			return nil, err
		}
		tx.WithEnergyPrice(price)
	}
	if tx.EnergyLimit == nil {
		limit, err := m.inner.EstimateEnergy(ctx, tx)
		if err != nil {
			return nil, err
		}
		tx.WithEnergyLimit(limit)
	}
	return m.inner.SendTransaction(ctx, tx)
}
