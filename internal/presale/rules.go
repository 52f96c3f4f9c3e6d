package presale

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/oracle"
)

// Rules is the immutable presale configuration: per-tier pricing,
// contribution bounds, total allocation and the sale window. Prices are in
// 9-decimal USD per whole token; contribution amounts are in token base
// units.
type Rules struct {
	PriceThreeMonths    uint64
	PriceSixMonths      uint64
	MinimumContribution uint64
	MaximumContribution uint64
	TotalAmount         uint64
	StartTime           time.Time
	EndTime             time.Time
}

// IsStarted reports whether the sale window has opened.
func (r Rules) IsStarted(now time.Time) bool {
	return !now.Before(r.StartTime)
}

// IsEnded reports whether the sale window has closed.
func (r Rules) IsEnded(now time.Time) bool {
	return !now.Before(r.EndTime)
}

// Remaining returns the unsold part of the total allocation.
func (r Rules) Remaining(tokenSold uint64) uint64 {
	return elw.SaturatingSub(r.TotalAmount, tokenSold)
}

// Price returns the tier's price in 9-decimal USD per whole token.
func (r Rules) Price(tier elw.PresaleTier) uint64 {
	if tier == elw.SixMonthsLockup {
		return r.PriceSixMonths
	}
	return r.PriceThreeMonths
}

// UnlockTime returns the instant a purchase under the tier becomes
// claimable: the sale window end plus the tier's lockup.
func (r Rules) UnlockTime(tier elw.PresaleTier) time.Time {
	return elw.MonthsLater(r.EndTime, tier.LockupMonths())
}

// Conditions runs the admission checks for a purchase, in fixed order. The
// first failure is authoritative.
func (r Rules) Conditions(now time.Time, amountToBuy, tokenSold, alreadyPurchased uint64) error {
	remaining := r.Remaining(tokenSold)
	if remaining == 0 {
		return elw.ErrAllTokensSold
	}
	if !r.IsStarted(now) {
		return elw.ErrPresaleNotStarted
	}
	if r.IsEnded(now) {
		return elw.ErrPresaleEnded
	}
	if amountToBuy > remaining {
		return elw.ErrExceedsRemaining
	}
	minimum := r.MinimumContribution
	if remaining < minimum {
		minimum = remaining
	}
	if amountToBuy < minimum {
		return elw.ErrBelowMinimum
	}
	if elw.SaturatingAdd(alreadyPurchased, amountToBuy) > r.MaximumContribution {
		return elw.ErrExceedsMaximum
	}
	return nil
}

// PaymentAndCarve prices a purchase in USDC base units and splits off the
// EDA carve-out. The remainder is the liquidity payment.
func (r Rules) PaymentAndCarve(amountToBuy uint64, tier elw.PresaleTier) (payment, carve uint64) {
	total := scalePayment(amountToBuy, r.Price(tier))
	carve = elw.CalculateByPercentage(total, elw.EdaCarvePercentage)
	payment = total - carve
	return payment, carve
}

// scalePayment multiplies the token amount by the tier price once, then
// floors twice: first stripping the token precision, then the precision gap
// down to the settlement currency. The order of truncation is part of the
// pricing contract.
func scalePayment(amount, price uint64) uint64 {
	z := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(price))
	z.Div(z, pow10(elw.Decimals))
	z.Div(z, pow10(elw.Decimals-elw.USDC.Decimals()))
	return z.Uint64()
}

// SolAmount converts a USDC base-unit amount to lamports using an oracle
// quote. The quoted confidence interval is added to the price; the single
// raw division floors the result.
func SolAmount(usdcAmount uint64, q oracle.Quote) uint64 {
	price := q.Price + int64(q.Conf)
	if price <= 0 {
		return 0
	}
	gap := elw.SOL.Decimals() - elw.USDC.Decimals()
	z := new(uint256.Int).Mul(uint256.NewInt(usdcAmount), pow10(gap))
	if q.Expo < 0 {
		z.Mul(z, pow10(int(-q.Expo)))
		z.Div(z, uint256.NewInt(uint64(price)))
		return z.Uint64()
	}
	div := new(uint256.Int).Mul(uint256.NewInt(uint64(price)), pow10(int(q.Expo)))
	z.Div(z, div)
	return z.Uint64()
}

func pow10(n int) *uint256.Int {
	z := uint256.NewInt(1)
	ten := uint256.NewInt(10)
	for i := 0; i < n; i++ {
		z.Mul(z, ten)
	}
	return z
}
