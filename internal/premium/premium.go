package premium

import (
	"github.com/wnt/elwcore/internal/elw"
)

// Split divides a premium payment between the burn and the treasury. A
// stable-currency payment goes to the treasury in full; a native-token
// payment burns a fixed percentage first.
func Split(amountToPay uint64, currency elw.Currency) (burnAmount, treasuryAmount uint64, err error) {
	switch currency {
	case elw.USDC:
		return 0, amountToPay, nil
	case elw.ELW:
		burnAmount = elw.CalculateByPercentage(amountToPay, elw.PremiumBurnPercentage)
		return burnAmount, amountToPay - burnAmount, nil
	default:
		return 0, 0, elw.ErrInvalidCurrency
	}
}
