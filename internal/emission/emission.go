package emission

import (
	"time"

	"github.com/wnt/elwcore/internal/elw"
)

// Entry is one caller-supplied claim line: a distribution timestamp and the
// recipient's percentage of that distribution, in basis points.
type Entry struct {
	Timestamp  int64  `json:"timestamp"`
	Percentage uint16 `json:"percentage"`
}

// DistributionAt returns the monthly distribution base in effect at ts. The
// base is halved once for every four 30-day months elapsed since the
// presale window ended.
func DistributionAt(presaleEnd, ts time.Time) uint64 {
	var months int64
	if ts.After(presaleEnd) {
		months = (ts.Unix() - presaleEnd.Unix()) / elw.EmissionMonthSeconds
	}
	shift := uint(months / elw.HalvingIntervalMonths)
	if shift >= 64 {
		return 0
	}
	return elw.BaseMonthlyReward >> shift
}

// Payout totals the entries' rewards. Every entry's timestamp is checked
// against the single sampled now before anything is summed; a future
// timestamp rejects the whole claim.
//
// Nothing records consumed timestamps, so resubmitting an already-paid
// entry pays again. TODO: track a consumed-timestamp set per recipient once
// product confirms the intended behavior.
func Payout(presaleEnd, now time.Time, entries []Entry) (uint64, error) {
	for _, entry := range entries {
		if entry.Timestamp > now.Unix() {
			return 0, elw.ErrClaimableRewardNotReady
		}
	}
	var total uint64
	for _, entry := range entries {
		base := DistributionAt(presaleEnd, time.Unix(entry.Timestamp, 0).UTC())
		total = elw.SaturatingAdd(total, elw.CalculateByPercentage(base, entry.Percentage))
	}
	return total, nil
}

// Share returns the recipient's share of the fixed total reward pool after
// claiming claimedTotal, in basis points, rounded half-up.
func Share(claimedTotal uint64) uint16 {
	return elw.RatioBasisPoints(claimedTotal, elw.TotalReward)
}
