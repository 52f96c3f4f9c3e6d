package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wnt/elwcore/internal/database"
	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/ledger"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/vault"
)

func testAuditor(t *testing.T) (*Auditor, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	auditor, err := New(db, zerolog.Nop())
	require.NoError(t, err)
	auditor.clock = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return auditor, db
}

func TestNew(t *testing.T) {
	_, err := New(nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestRunOnceCleanState(t *testing.T) {
	auditor, db := testAuditor(t)
	l := ledger.New(zerolog.Nop())
	require.NoError(t, l.Mint(db, elw.ELW, 1_000_000, vault.MustAddress(vault.Presale)))

	findings, err := auditor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestRunOnceSupplyViolation(t *testing.T) {
	auditor, db := testAuditor(t)
	l := ledger.New(zerolog.Nop())
	require.NoError(t, l.Mint(db, elw.ELW, elw.Supply, "somewhere"))
	require.NoError(t, l.Mint(db, elw.ELW, 1, "elsewhere"))

	findings, err := auditor.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "supply", findings[0].Check)
}

func TestRunOncePresaleViolations(t *testing.T) {
	auditor, db := testAuditor(t)

	t.Run("oversold summary", func(t *testing.T) {
		summary := models.PresaleSummary{
			TotalAmount:      1_000,
			TokenSold:        1_500,
			TokenSoldForUSDC: 1_500,
			State:            models.SummaryActive,
		}
		require.NoError(t, db.Create(&summary).Error)

		findings, err := auditor.RunOnce(context.Background())
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Equal(t, "presale_oversold", findings[0].Check)

		require.NoError(t, db.Unscoped().Delete(&summary).Error)
	})

	t.Run("open purchases not covered by the vault", func(t *testing.T) {
		summary := models.PresaleSummary{TotalAmount: 10_000, TokenSold: 5_000, TokenSoldForUSDC: 5_000, State: models.SummaryActive}
		require.NoError(t, db.Create(&summary).Error)
		record := models.PurchaseRecord{Buyer: "alice", Tier: 1, Amount: 5_000, State: models.PurchaseOpen}
		require.NoError(t, db.Create(&record).Error)

		findings, err := auditor.RunOnce(context.Background())
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Equal(t, "presale_coverage", findings[0].Check)
	})
}

func TestRunOnceMiningViolation(t *testing.T) {
	auditor, db := testAuditor(t)
	pool := models.MiningPool{Currency: string(elw.USDC), TotalReward: 100, ClaimedReward: 200}
	require.NoError(t, db.Create(&pool).Error)

	findings, err := auditor.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "mining_overclaim", findings[0].Check)
}
