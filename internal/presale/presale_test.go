package presale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/models"
)

func TestApplyPurchase(t *testing.T) {
	r := testRules()

	t.Run("usdc purchase updates the usdc columns", func(t *testing.T) {
		summary := &models.PresaleSummary{State: models.SummaryActive}
		record := &models.PurchaseRecord{Buyer: "alice", State: models.PurchaseOpen}

		r.ApplyPurchase(summary, record, elw.ThreeMonthsLockup, elw.USDC, tokens(1_500), 16_200_000, 1_800_000)

		assert.Equal(t, tokens(1_500), summary.TokenSold)
		assert.Equal(t, tokens(1_500), summary.TokenSoldForUSDC)
		assert.Equal(t, uint64(0), summary.TokenSoldForSOL)
		assert.Equal(t, uint64(18_000_000), summary.USDCRaised)
		assert.Equal(t, uint64(1_800_000), summary.USDCSentToEda)
		assert.Equal(t, uint64(16_200_000), summary.USDCSentToLiquidity)
		assert.Equal(t, r.TotalAmount, summary.TotalAmount)

		assert.Equal(t, tokens(1_500), record.Amount)
		assert.Equal(t, uint8(elw.ThreeMonthsLockup), record.Tier)
		assert.Equal(t, r.UnlockTime(elw.ThreeMonthsLockup).Unix(), record.UnlockTime)
	})

	t.Run("repeat purchase accumulates and restamps", func(t *testing.T) {
		summary := &models.PresaleSummary{State: models.SummaryActive}
		record := &models.PurchaseRecord{Buyer: "alice", State: models.PurchaseOpen}

		r.ApplyPurchase(summary, record, elw.ThreeMonthsLockup, elw.USDC, tokens(1_000), 10_800_000, 1_200_000)
		r.ApplyPurchase(summary, record, elw.SixMonthsLockup, elw.SOL, tokens(2_000), 18_000_000, 2_000_000)

		assert.Equal(t, tokens(3_000), summary.TokenSold)
		assert.Equal(t, tokens(1_000), summary.TokenSoldForUSDC)
		assert.Equal(t, tokens(2_000), summary.TokenSoldForSOL)
		assert.Equal(t, uint64(20_000_000), summary.SolRaised)

		assert.Equal(t, tokens(3_000), record.Amount)
		assert.Equal(t, uint8(elw.SixMonthsLockup), record.Tier)
		assert.Equal(t, r.UnlockTime(elw.SixMonthsLockup).Unix(), record.UnlockTime)
	})
}

func TestAuthorizeClaim(t *testing.T) {
	r := testRules()
	unlock := r.UnlockTime(elw.ThreeMonthsLockup)
	record := func() *models.PurchaseRecord {
		return &models.PurchaseRecord{
			Buyer:      "alice",
			Tier:       uint8(elw.ThreeMonthsLockup),
			Amount:     tokens(1_500),
			UnlockTime: unlock.Unix(),
			State:      models.PurchaseOpen,
		}
	}

	t.Run("before the window closes", func(t *testing.T) {
		err := r.AuthorizeClaim(r.EndTime.Add(-time.Hour), record())
		assert.ErrorIs(t, err, elw.ErrPresaleNotEnded)
	})

	t.Run("before the unlock", func(t *testing.T) {
		err := r.AuthorizeClaim(unlock.Add(-time.Second), record())
		assert.ErrorIs(t, err, elw.ErrCannotClaimUntilUnlock)
	})

	t.Run("at the unlock instant", func(t *testing.T) {
		assert.NoError(t, r.AuthorizeClaim(unlock, record()))
	})

	t.Run("only once", func(t *testing.T) {
		claimed := record()
		claimed.State = models.PurchaseClaimed
		err := r.AuthorizeClaim(unlock, claimed)
		assert.ErrorIs(t, err, elw.ErrTokensAlreadyClaimed)
	})
}

func TestAuthorizeBurnUnsold(t *testing.T) {
	r := testRules()
	after := r.EndTime.Add(time.Hour)

	t.Run("burns the unsold remainder", func(t *testing.T) {
		summary := &models.PresaleSummary{
			TotalAmount: r.TotalAmount,
			TokenSold:   tokens(40_000_000),
			State:       models.SummaryActive,
		}
		amount, err := r.AuthorizeBurnUnsold(after, summary)
		assert.NoError(t, err)
		assert.Equal(t, tokens(60_000_000), amount)
	})

	t.Run("unstamped summary burns the whole allocation", func(t *testing.T) {
		summary := &models.PresaleSummary{State: models.SummaryActive}
		amount, err := r.AuthorizeBurnUnsold(after, summary)
		assert.NoError(t, err)
		assert.Equal(t, r.TotalAmount, amount)
	})

	t.Run("nothing to burn when sold out", func(t *testing.T) {
		summary := &models.PresaleSummary{TotalAmount: r.TotalAmount, TokenSold: r.TotalAmount}
		_, err := r.AuthorizeBurnUnsold(after, summary)
		assert.ErrorIs(t, err, elw.ErrAllTokensSold)
	})

	t.Run("only once", func(t *testing.T) {
		summary := &models.PresaleSummary{TotalAmount: r.TotalAmount, State: models.SummaryBurned}
		_, err := r.AuthorizeBurnUnsold(after, summary)
		assert.ErrorIs(t, err, elw.ErrUnsoldAlreadyBurned)
	})

	t.Run("not before the window closes", func(t *testing.T) {
		summary := &models.PresaleSummary{TotalAmount: r.TotalAmount, State: models.SummaryActive}
		_, err := r.AuthorizeBurnUnsold(r.EndTime.Add(-time.Hour), summary)
		assert.ErrorIs(t, err, elw.ErrCannotBurnUntilPresaleEnd)
	})
}
