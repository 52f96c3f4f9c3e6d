package treasury

import (
	"time"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/mining"
	"github.com/wnt/elwcore/internal/models"
)

// LockedTotal sums the mining reward liability across every pool against
// the shared platform balance.
func LockedTotal(pools []models.MiningPool, platformBalance uint64, now time.Time) uint64 {
	var locked uint64
	for i := range pools {
		locked = elw.SaturatingAdd(locked, mining.LockedReward(&pools[i], platformBalance, now))
	}
	return locked
}

// Available is the platform balance ceiling that may be withdrawn or
// destroyed: the balance minus every pool's locked reward.
func Available(pools []models.MiningPool, platformBalance uint64, now time.Time) uint64 {
	return elw.SaturatingSub(platformBalance, LockedTotal(pools, platformBalance, now))
}

// Authorize rejects a platform withdraw or burn that would eat into locked
// mining rewards.
func Authorize(amount uint64, pools []models.MiningPool, platformBalance uint64, now time.Time) error {
	if amount > Available(pools, platformBalance, now) {
		return elw.ErrAmountLockedForMining
	}
	return nil
}
