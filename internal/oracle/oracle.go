package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/wnt/elwcore/internal/elw"
)

// ErrUnsupportedFeed is returned when no price feed exists for a currency.
var ErrUnsupportedFeed = errors.New("no price feed for currency")

// Quote is a price observation: Price * 10^Expo is the asset's USD price
// and Conf is the publisher's confidence interval in the same scale.
type Quote struct {
	Price int64
	Conf  uint64
	Expo  int32
}

// PriceOracle looks up the current quote for a settlement currency. Only
// presale pricing consults it, and only when the settlement currency needs
// conversion.
type PriceOracle interface {
	Quote(ctx context.Context, currency elw.Currency) (Quote, error)
}

// Static serves fixed quotes, for tests and offline runs.
type Static struct {
	Quotes map[elw.Currency]Quote
}

// Quote returns the configured quote for the currency.
func (s Static) Quote(_ context.Context, currency elw.Currency) (Quote, error) {
	q, ok := s.Quotes[currency]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnsupportedFeed, currency)
	}
	return q, nil
}
