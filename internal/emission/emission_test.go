package emission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnt/elwcore/internal/elw"
)

var presaleEnd = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

func monthsAfterEnd(n int64) time.Time {
	return presaleEnd.Add(time.Duration(n*elw.EmissionMonthSeconds) * time.Second)
}

func TestDistributionAt(t *testing.T) {
	t.Run("full base before the first halving", func(t *testing.T) {
		assert.Equal(t, elw.BaseMonthlyReward, DistributionAt(presaleEnd, presaleEnd))
		assert.Equal(t, elw.BaseMonthlyReward, DistributionAt(presaleEnd, monthsAfterEnd(3)))
	})

	t.Run("halves every four months", func(t *testing.T) {
		assert.Equal(t, elw.BaseMonthlyReward/2, DistributionAt(presaleEnd, monthsAfterEnd(4)))
		assert.Equal(t, elw.BaseMonthlyReward/2, DistributionAt(presaleEnd, monthsAfterEnd(7)))
		assert.Equal(t, elw.BaseMonthlyReward/4, DistributionAt(presaleEnd, monthsAfterEnd(8)))
		assert.Equal(t, elw.BaseMonthlyReward/16, DistributionAt(presaleEnd, monthsAfterEnd(16)))
	})

	t.Run("before the presale end", func(t *testing.T) {
		assert.Equal(t, elw.BaseMonthlyReward, DistributionAt(presaleEnd, presaleEnd.Add(-time.Hour)))
	})

	t.Run("far future decays to zero", func(t *testing.T) {
		assert.Equal(t, uint64(0), DistributionAt(presaleEnd, monthsAfterEnd(4*64)))
	})
}

func TestPayout(t *testing.T) {
	now := monthsAfterEnd(5)

	t.Run("sums percentage shares of each distribution", func(t *testing.T) {
		entries := []Entry{
			{Timestamp: monthsAfterEnd(1).Unix(), Percentage: 100}, // 1% of full base
			{Timestamp: monthsAfterEnd(4).Unix(), Percentage: 200}, // 2% of half base
		}
		payout, err := Payout(presaleEnd, now, entries)
		require.NoError(t, err)

		want := elw.CalculateByPercentage(elw.BaseMonthlyReward, 100) +
			elw.CalculateByPercentage(elw.BaseMonthlyReward/2, 200)
		assert.Equal(t, want, payout)
	})

	t.Run("any future timestamp rejects the whole claim", func(t *testing.T) {
		entries := []Entry{
			{Timestamp: monthsAfterEnd(1).Unix(), Percentage: 100},
			{Timestamp: now.Add(time.Hour).Unix(), Percentage: 100},
		}
		_, err := Payout(presaleEnd, now, entries)
		assert.ErrorIs(t, err, elw.ErrClaimableRewardNotReady)
	})

	t.Run("no entries pays nothing", func(t *testing.T) {
		payout, err := Payout(presaleEnd, now, nil)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), payout)
	})
}

func TestShare(t *testing.T) {
	assert.Equal(t, uint16(2500), Share(elw.TotalReward/4))
	assert.Equal(t, uint16(10000), Share(elw.TotalReward))
	assert.Equal(t, uint16(0), Share(0))
}
