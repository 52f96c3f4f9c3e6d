package vesting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnt/elwcore/internal/elw"
)

var presaleEnd = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

func TestCheckpoints(t *testing.T) {
	cps := Checkpoints(presaleEnd)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), cps[0])
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), cps[1])
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), cps[2])
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), cps[3])
}

func TestMemberTotal(t *testing.T) {
	teamTotal := elw.CalculateByPercentage(elw.Supply, elw.TeamPercentage)
	assert.Equal(t, teamTotal/4, MemberTotal(2500))
	assert.Equal(t, teamTotal, MemberTotal(10000))
}

func TestClaimable(t *testing.T) {
	const share = uint16(2500)
	perPeriod := MemberTotal(share) / 4
	cps := Checkpoints(presaleEnd)

	t.Run("nothing before the first checkpoint", func(t *testing.T) {
		_, _, err := Claimable(presaleEnd, cps[0].Add(-time.Second), share, 0)
		assert.ErrorIs(t, err, elw.ErrPeriodNotReached)
	})

	t.Run("one quarter at the first checkpoint", func(t *testing.T) {
		payout, last, err := Claimable(presaleEnd, cps[0], share, 0)
		require.NoError(t, err)
		assert.Equal(t, perPeriod, payout)
		assert.Equal(t, cps[0].Unix(), last)
	})

	t.Run("missed quarters catch up in one claim", func(t *testing.T) {
		payout, last, err := Claimable(presaleEnd, cps[2].Add(time.Hour), share, cps[0].Unix())
		require.NoError(t, err)
		assert.Equal(t, 2*perPeriod, payout)
		assert.Equal(t, cps[2].Unix(), last)
	})

	t.Run("full catch-up from zero after the final checkpoint", func(t *testing.T) {
		payout, last, err := Claimable(presaleEnd, cps[3].AddDate(1, 0, 0), share, 0)
		require.NoError(t, err)
		assert.Equal(t, 4*perPeriod, payout)
		assert.Equal(t, cps[3].Unix(), last)
	})

	t.Run("same period twice", func(t *testing.T) {
		_, _, err := Claimable(presaleEnd, cps[1], share, cps[1].Unix())
		assert.ErrorIs(t, err, elw.ErrAlreadyClaimedForPeriod)
	})
}
