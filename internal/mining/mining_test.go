package mining

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/models"
)

// platformBalance is chosen so the derived rate is exactly 1000 base units
// per second: 10% of it equals 1000 * 365 * 86400.
const platformBalance = uint64(1000 * 365 * 86400 * 10)

var t0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestYearlyRewardCap(t *testing.T) {
	t.Run("platform percentage binds", func(t *testing.T) {
		// 30% of principal is far above 10% of the platform balance
		principal := platformBalance
		assert.Equal(t, platformBalance/10, YearlyRewardCap(platformBalance, principal))
	})

	t.Run("principal ceiling binds", func(t *testing.T) {
		principal := uint64(1_000)
		assert.Equal(t, uint64(300), YearlyRewardCap(platformBalance, principal))
	})
}

func TestRewardRate(t *testing.T) {
	principal := platformBalance // platform side binds
	assert.Equal(t, uint64(1000), RewardRate(platformBalance, principal))
}

func TestSyncAccrual(t *testing.T) {
	pool := &models.MiningPool{Currency: string(elw.USDC)}
	alice := &models.MinerPosition{Miner: "alice", Currency: string(elw.USDC)}
	bob := &models.MinerPosition{Miner: "bob", Currency: string(elw.USDC)}

	// First deposit stamps the clock without accruing
	Sync(pool, alice, platformBalance, 100_000_000_000, 0, ActionDeposit, t0)
	assert.Equal(t, uint64(0), pool.TotalReward)
	assert.Equal(t, t0.Unix(), pool.LastUpdate)
	assert.Equal(t, uint64(100_000_000_000), pool.BaseAmount)

	// Second deposit at the same instant accrues nothing
	Sync(pool, bob, platformBalance, 100_000_000_000, 0, ActionDeposit, t0)
	assert.Equal(t, uint64(0), pool.TotalReward)
	assert.Equal(t, uint64(200_000_000_000), pool.BaseAmount)

	// 1000 seconds later the pool accrues rate * elapsed * 2
	later := t0.Add(1000 * time.Second)
	claimable := Sync(pool, alice, platformBalance, 0, 0, ActionClaim, later)
	assert.Equal(t, uint64(2_000_000), pool.TotalReward)
	assert.Equal(t, uint64(1_000_000), claimable) // half the pool
	assert.Equal(t, uint64(1_000_000), alice.ClaimedReward)
	assert.Equal(t, uint64(1_000_000), pool.ClaimedReward)

	// Bob's half is still there
	claimable = Sync(pool, bob, platformBalance, 0, 0, ActionClaim, later)
	assert.Equal(t, uint64(1_000_000), claimable)
	assert.Equal(t, uint64(0), pool.UnclaimedReward())

	// Claiming again immediately yields nothing
	claimable = Sync(pool, alice, platformBalance, 0, 0, ActionClaim, later)
	assert.Equal(t, uint64(0), claimable)
}

func TestSyncMonotonicTotal(t *testing.T) {
	pool := &models.MiningPool{Currency: string(elw.SOL)}
	position := &models.MinerPosition{Miner: "alice", Currency: string(elw.SOL)}

	Sync(pool, position, platformBalance, 50_000_000_000, 0, ActionDeposit, t0)

	prev := pool.TotalReward
	for i := 1; i <= 5; i++ {
		now := t0.Add(time.Duration(i) * time.Minute)
		Sync(pool, position, platformBalance, 0, 0, ActionClaim, now)
		assert.GreaterOrEqual(t, pool.TotalReward, prev)
		prev = pool.TotalReward
	}
}

func TestSyncWithdraw(t *testing.T) {
	pool := &models.MiningPool{Currency: string(elw.USDC)}
	position := &models.MinerPosition{Miner: "alice", Currency: string(elw.USDC)}

	Sync(pool, position, platformBalance, 1_000, 500, ActionDeposit, t0)
	Sync(pool, position, platformBalance, 400, 200, ActionWithdraw, t0.Add(time.Second))

	assert.Equal(t, uint64(600), pool.BaseAmount)
	assert.Equal(t, uint64(300), pool.QuoteAmount)
	assert.Equal(t, uint64(600), position.BaseAmount)
	assert.Equal(t, uint64(300), position.QuoteAmount)
}

func TestLockedReward(t *testing.T) {
	t.Run("projects forward without mutating", func(t *testing.T) {
		pool := &models.MiningPool{
			Currency:    string(elw.USDC),
			BaseAmount:  platformBalance, // platform side binds, rate = 1000/s
			TotalReward: 5_000,
			LastUpdate:  t0.Unix(),
		}
		locked := LockedReward(pool, platformBalance, t0.Add(10*time.Second))
		assert.Equal(t, uint64(5_000+10*1000*2), locked)
		assert.Equal(t, uint64(5_000), pool.TotalReward)
	})

	t.Run("empty pool carries only the unclaimed total", func(t *testing.T) {
		pool := &models.MiningPool{Currency: string(elw.USDC), TotalReward: 700, ClaimedReward: 200}
		assert.Equal(t, uint64(500), LockedReward(pool, platformBalance, t0))
	})
}
