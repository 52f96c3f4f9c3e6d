package elw

import "errors"

// Domain errors surfaced by the accounting engine. Every failure aborts the
// whole action before any record is written; nothing is retried internally.

// Authorization
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrMemberShareNotFound = errors.New("member share not found")
)

// Policy violations
var (
	ErrPresaleNotStarted         = errors.New("presale is not started")
	ErrPresaleEnded              = errors.New("presale is ended")
	ErrPresaleNotEnded           = errors.New("presale is not ended")
	ErrExceedsRemaining          = errors.New("exceeds the remaining amount")
	ErrBelowMinimum              = errors.New("below the minimum contribution")
	ErrExceedsMaximum            = errors.New("exceeds the maximum contribution")
	ErrPeriodNotReached          = errors.New("period not reached")
	ErrCannotClaimUntilUnlock    = errors.New("cannot claim until unlock time")
	ErrClaimableRewardNotReady   = errors.New("claimable reward not ready")
	ErrAmountLockedForMining     = errors.New("this amount is locked for mining rewards")
	ErrCannotBurnUntilPresaleEnd = errors.New("cannot burn until presale is done")
)

// Insufficient funds
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotEnoughInVault    = errors.New("not enough balance in vault")
	ErrInsufficientReward  = errors.New("insufficient reward")
	ErrAllTokensSold       = errors.New("all tokens sold")
	ErrAllRewardsClaimed   = errors.New("all rewards have been claimed")
	ErrNoClaimableRewards  = errors.New("no claimable rewards")
)

// Already done (one-shot flags)
var (
	ErrTokensAlreadyClaimed    = errors.New("tokens already claimed")
	ErrUnsoldAlreadyBurned     = errors.New("unsold tokens already burned")
	ErrAlreadyClaimedForPeriod = errors.New("already claimed for this period")
)

// Invalid input
var (
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidTier     = errors.New("invalid presale tier")
)

var domainErrors = []error{
	ErrUnauthorized, ErrMemberShareNotFound,
	ErrPresaleNotStarted, ErrPresaleEnded, ErrPresaleNotEnded,
	ErrExceedsRemaining, ErrBelowMinimum, ErrExceedsMaximum,
	ErrPeriodNotReached, ErrCannotClaimUntilUnlock, ErrClaimableRewardNotReady,
	ErrAmountLockedForMining, ErrCannotBurnUntilPresaleEnd,
	ErrInsufficientBalance, ErrNotEnoughInVault, ErrInsufficientReward,
	ErrAllTokensSold, ErrAllRewardsClaimed, ErrNoClaimableRewards,
	ErrTokensAlreadyClaimed, ErrUnsoldAlreadyBurned, ErrAlreadyClaimedForPeriod,
	ErrInvalidCurrency, ErrInvalidTier,
}

// IsRejection reports whether err is a deliberate refusal by the engine, as
// opposed to an infrastructure failure. Rejections are terminal; everything
// else may be retried.
func IsRejection(err error) bool {
	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return true
		}
	}
	return false
}
