package providers

import (
	"context"
	"math/big"
	"testing"

	"github.com/corebc/go-corebc/types"
	"github.com/stretchr/testify/assert"
)

// fixedOracle always suggests the same price.
type fixedOracle struct {
	price *big.Int
}

func (o *fixedOracle) SuggestEnergyPrice(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(o.price), nil
}

// TestOracleFillsFeeFields verifies an unpriced request gets the suggested price and the node's
// execution estimate.
func TestOracleFillsFeeFields(t *testing.T) {
	inner := &stubMiddleware{
		estimateFn: func(ctx context.Context, tx *types.TransactionRequest) (uint64, error) {
			// The estimate must see the final price.
			assert.NotNil(t, tx.EnergyPrice)
			return 21000, nil
		},
	}
	oracle := NewOracleMiddleware(inner, &fixedOracle{price: big.NewInt(40)})

	tx := types.NewTransactionRequest().WithTo(testAddress(0x22))
	assert.NoError(t, oracle.FillTransaction(context.Background(), tx))
	assert.EqualValues(t, "40", tx.EnergyPrice.String())
	assert.EqualValues(t, 21000, *tx.EnergyLimit)
}

// TestOracleRespectsExplicitFields verifies explicitly set fee fields are never overridden.
func TestOracleRespectsExplicitFields(t *testing.T) {
	estimates := 0
	inner := &stubMiddleware{
		estimateFn: func(ctx context.Context, tx *types.TransactionRequest) (uint64, error) {
			estimates++
			return 21000, nil
		},
	}
	oracle := NewOracleMiddleware(inner, &fixedOracle{price: big.NewInt(40)})

	tx := types.NewTransactionRequest().WithEnergyPrice(big.NewInt(99)).WithEnergyLimit(50000)
	assert.NoError(t, oracle.FillTransaction(context.Background(), tx))
	assert.EqualValues(t, "99", tx.EnergyPrice.String())
	assert.EqualValues(t, 50000, *tx.EnergyLimit)
	assert.EqualValues(t, 0, estimates)
}

// TestOracleDefaultsToNode verifies the nil-oracle default prices from the node's own estimate.
func TestOracleDefaultsToNode(t *testing.T) {
	inner := &stubMiddleware{
		energyPriceFn: func(ctx context.Context) (*big.Int, error) {
			return big.NewInt(77), nil
		},
		estimateFn: func(ctx context.Context, tx *types.TransactionRequest) (uint64, error) {
			return 30000, nil
		},
	}
	oracle := NewOracleMiddleware(inner, nil)

	tx := types.NewTransactionRequest().WithTo(testAddress(0x22))
	assert.NoError(t, oracle.FillTransaction(context.Background(), tx))
	assert.EqualValues(t, "77", tx.EnergyPrice.String())
	assert.EqualValues(t, 30000, *tx.EnergyLimit)
}

// TestOracleFillsOnSend verifies the send path prices the request before delegating.
func TestOracleFillsOnSend(t *testing.T) {
	var sent *types.TransactionRequest
	inner := &stubMiddleware{
		estimateFn: func(ctx context.Context, tx *types.TransactionRequest) (uint64, error) {
			return 21000, nil
		},
		sendFn: func(ctx context.Context, tx *types.TransactionRequest) (*PendingTransaction, error) {
			sent = tx
			return nil, nil
		},
	}
	oracle := NewOracleMiddleware(inner, &fixedOracle{price: big.NewInt(40)})

	_, err := oracle.SendTransaction(context.Background(), types.NewTransactionRequest().WithTo(testAddress(0x22)))
	assert.NoError(t, err)
	assert.NotNil(t, sent)
	assert.EqualValues(t, "40", sent.EnergyPrice.String())
	assert.EqualValues(t, 21000, *sent.EnergyLimit)
}
