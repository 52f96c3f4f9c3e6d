package mining

import (
	"time"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/models"
)

// Action is a mining state transition.
type Action int

const (
	ActionDeposit Action = iota
	ActionWithdraw
	ActionClaim
)

const (
	daysPerYear   = 365
	secondsPerDay = 86400
	elapsedFactor = 2
)

// Sync is the single synchronization step every transition routes through,
// in fixed order: accrue the pool's reward, compute the miner's pro-rata
// share, derive the claimable remainder, apply the transition, and return
// the claimable amount. Principal arithmetic saturates instead of
// wrapping.
func Sync(
	pool *models.MiningPool,
	position *models.MinerPosition,
	platformBalance uint64,
	baseDelta, quoteDelta uint64,
	action Action,
	now time.Time,
) uint64 {
	accrue(pool, platformBalance, now)

	share := proRataShare(pool, position)
	claimable := elw.SaturatingSub(share, position.ClaimedReward)

	switch action {
	case ActionDeposit:
		pool.BaseAmount = elw.SaturatingAdd(pool.BaseAmount, baseDelta)
		pool.QuoteAmount = elw.SaturatingAdd(pool.QuoteAmount, quoteDelta)
		position.BaseAmount = elw.SaturatingAdd(position.BaseAmount, baseDelta)
		position.QuoteAmount = elw.SaturatingAdd(position.QuoteAmount, quoteDelta)
	case ActionWithdraw:
		pool.BaseAmount = elw.SaturatingSub(pool.BaseAmount, baseDelta)
		pool.QuoteAmount = elw.SaturatingSub(pool.QuoteAmount, quoteDelta)
		position.BaseAmount = elw.SaturatingSub(position.BaseAmount, baseDelta)
		position.QuoteAmount = elw.SaturatingSub(position.QuoteAmount, quoteDelta)
	case ActionClaim:
		pool.ClaimedReward = elw.SaturatingAdd(pool.ClaimedReward, claimable)
		position.ClaimedReward = elw.SaturatingAdd(position.ClaimedReward, claimable)
	}

	position.RewardSnapshot = share
	return claimable
}

// YearlyRewardCap bounds a pool's annual reward: a percentage of the
// current platform balance, capped by a maximum APR on the pool's own
// deposited principal.
func YearlyRewardCap(platformBalance, poolPrincipal uint64) uint64 {
	byPlatform := elw.CalculateByPercentage(platformBalance, elw.MiningYearlyRewardPercentage)
	byPrincipal := elw.CalculateByPercentage(poolPrincipal, elw.MiningYearlyRewardMaxPercentage)
	if byPrincipal < byPlatform {
		return byPrincipal
	}
	return byPlatform
}

// RewardRate derives the per-second rate from the yearly cap with two
// successive floor divisions.
func RewardRate(platformBalance, poolPrincipal uint64) uint64 {
	return YearlyRewardCap(platformBalance, poolPrincipal) / daysPerYear / secondsPerDay
}

// LockedReward is the pool's outstanding reward liability: the accrued but
// unclaimed total plus a projection of what accrues between the last update
// and now at the current rate. The projection does not mutate the pool.
func LockedReward(pool *models.MiningPool, platformBalance uint64, now time.Time) uint64 {
	locked := pool.UnclaimedReward()
	if pool.BaseAmount == 0 {
		return locked
	}
	elapsed := now.Unix() - pool.LastUpdate
	if pool.LastUpdate == 0 || elapsed <= 0 {
		return locked
	}
	rate := RewardRate(platformBalance, pool.BaseAmount)
	return elw.SaturatingAdd(locked, rate*uint64(elapsed)*elapsedFactor)
}

// accrue advances the pool's gross reward total. The elapsed multiplier
// runs at twice the derived per-second rate.
// TODO: confirm the 2x elapsed factor with product before touching it.
func accrue(pool *models.MiningPool, platformBalance uint64, now time.Time) {
	nowUnix := now.Unix()
	if pool.BaseAmount == 0 || pool.LastUpdate == 0 {
		pool.LastUpdate = nowUnix
		return
	}
	elapsed := nowUnix - pool.LastUpdate
	if elapsed <= 0 {
		return
	}
	rate := RewardRate(platformBalance, pool.BaseAmount)
	pool.TotalReward = elw.SaturatingAdd(pool.TotalReward, rate*uint64(elapsed)*elapsedFactor)
	pool.LastUpdate = nowUnix
}

// proRataShare is the miner's fraction of the pool's gross accrued reward,
// proportional to deposited ELW principal.
func proRataShare(pool *models.MiningPool, position *models.MinerPosition) uint64 {
	if pool.BaseAmount == 0 {
		return 0
	}
	return elw.MulDiv(pool.TotalReward, position.BaseAmount, pool.BaseAmount)
}
