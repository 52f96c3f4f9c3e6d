package vesting

import (
	"time"

	"github.com/wnt/elwcore/internal/elw"
)

// checkpointCount is the number of vesting cliffs; each releases one equal
// part of a member's entitlement.
const checkpointCount = 4

// Checkpoints returns the four cliff instants: the presale window end plus
// 3, 6, 9 and 12 months.
func Checkpoints(presaleEnd time.Time) [checkpointCount]time.Time {
	var cps [checkpointCount]time.Time
	for i := range cps {
		cps[i] = elw.MonthsLater(presaleEnd, 3*(i+1))
	}
	return cps
}

// MemberTotal returns a member's full entitlement: the team allocation
// scaled by the member's share in basis points.
func MemberTotal(shareBasisPoints uint16) uint64 {
	teamTotal := elw.CalculateByPercentage(elw.Supply, elw.TeamPercentage)
	return elw.CalculateByPercentage(teamTotal, shareBasisPoints)
}

// Claimable computes a member's payout at now. It pays one quarter of the
// entitlement for every checkpoint after lastPeriod up to and including the
// newest reached one, so missed quarters catch up in a single claim.
// Returns the payout and the new last-paid checkpoint.
func Claimable(presaleEnd, now time.Time, shareBasisPoints uint16, lastPeriod int64) (uint64, int64, error) {
	cps := Checkpoints(presaleEnd)
	perPeriod := MemberTotal(shareBasisPoints) / checkpointCount

	current := int64(0)
	for i := len(cps) - 1; i >= 0; i-- {
		if !now.Before(cps[i]) {
			current = cps[i].Unix()
			break
		}
	}
	if current == 0 {
		return 0, 0, elw.ErrPeriodNotReached
	}
	if lastPeriod == current {
		return 0, 0, elw.ErrAlreadyClaimedForPeriod
	}

	count := uint64(0)
	for _, cp := range cps {
		ts := cp.Unix()
		if ts > lastPeriod && ts <= current {
			count++
		}
	}
	return perPeriod * count, current, nil
}
