package amm

import (
	"context"

	"github.com/wnt/elwcore/internal/elw"
)

// PositionDelta reports the principal change an operation actually
// produced. Pools may round or rebalance, so the delta can differ from
// the requested amounts.
type PositionDelta struct {
	BaseAmount  uint64
	QuoteAmount uint64
}

// PoolClient manages the external liquidity position backing a mining
// pool, keyed by the pool's quote currency.
type PoolClient interface {
	Deposit(ctx context.Context, quote elw.Currency, baseAmount, quoteAmount uint64) (PositionDelta, error)
	Withdraw(ctx context.Context, quote elw.Currency, baseAmount, quoteAmount uint64) (PositionDelta, error)
}

// Passthrough reports every requested amount as applied unchanged. It
// backs pools with no external position and is the default in tests.
type Passthrough struct{}

func (Passthrough) Deposit(_ context.Context, _ elw.Currency, baseAmount, quoteAmount uint64) (PositionDelta, error) {
	return PositionDelta{BaseAmount: baseAmount, QuoteAmount: quoteAmount}, nil
}

func (Passthrough) Withdraw(_ context.Context, _ elw.Currency, baseAmount, quoteAmount uint64) (PositionDelta, error) {
	return PositionDelta{BaseAmount: baseAmount, QuoteAmount: quoteAmount}, nil
}
