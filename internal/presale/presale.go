package presale

import (
	"time"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/models"
)

// ApplyPurchase writes a successful purchase into the summary and the
// buyer's record. payment and carve are in the settlement currency's base
// units. The summary's total allocation is stamped exactly once, on the
// first purchase; the record's tier and unlock time are restamped on every
// purchase.
func (r Rules) ApplyPurchase(
	summary *models.PresaleSummary,
	record *models.PurchaseRecord,
	tier elw.PresaleTier,
	currency elw.Currency,
	amountToBuy, payment, carve uint64,
) {
	switch currency {
	case elw.USDC:
		summary.USDCSentToEda += carve
		summary.USDCSentToLiquidity += payment
		summary.TokenSoldForUSDC += amountToBuy
		summary.USDCRaised += payment + carve
	case elw.SOL:
		summary.SolSentToEda += carve
		summary.SolSentToLiquidity += payment
		summary.TokenSoldForSOL += amountToBuy
		summary.SolRaised += payment + carve
	}

	summary.TokenSold += amountToBuy
	if summary.TotalAmount == 0 {
		summary.TotalAmount = r.TotalAmount
	}

	record.Amount += amountToBuy
	record.UnlockTime = r.UnlockTime(tier).Unix()
	record.Tier = uint8(tier)
}

// AuthorizeClaim validates a presale claim. The window must have closed,
// the purchase's unlock time must have passed, and the one-shot payout must
// not have happened yet.
func (r Rules) AuthorizeClaim(now time.Time, record *models.PurchaseRecord) error {
	if !r.IsEnded(now) {
		return elw.ErrPresaleNotEnded
	}
	if now.Unix() < record.UnlockTime {
		return elw.ErrCannotClaimUntilUnlock
	}
	if record.Claimed() {
		return elw.ErrTokensAlreadyClaimed
	}
	return nil
}

// AuthorizeBurnUnsold validates the terminal burn of unsold tokens and
// returns the amount to destroy.
func (r Rules) AuthorizeBurnUnsold(now time.Time, summary *models.PresaleSummary) (uint64, error) {
	total := summary.TotalAmount
	if total == 0 {
		// No purchase ever stamped the summary; the whole allocation is unsold.
		total = r.TotalAmount
	}
	burnAmount := elw.SaturatingSub(total, summary.TokenSold)
	if burnAmount == 0 {
		return 0, elw.ErrAllTokensSold
	}
	if summary.Burned() {
		return 0, elw.ErrUnsoldAlreadyBurned
	}
	if !r.IsEnded(now) {
		return 0, elw.ErrCannotBurnUntilPresaleEnd
	}
	return burnAmount, nil
}
