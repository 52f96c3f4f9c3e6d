package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/ledger"
	"github.com/wnt/elwcore/internal/metrics"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/treasury"
	"github.com/wnt/elwcore/internal/vault"
)

// DefaultInterval between reconciliation sweeps.
const DefaultInterval = 5 * time.Minute

// Finding is one invariant violation detected by a sweep.
type Finding struct {
	Check  string
	Detail string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Check, f.Detail)
}

// Auditor sweeps the stored state and checks the accounting invariants
// against it. It only reads; a violation means some earlier action applied
// partially or the store was modified out of band.
type Auditor struct {
	db       *gorm.DB
	ledger   *ledger.Ledger
	clock    func() time.Time
	vaults   map[vault.Name]string
	interval time.Duration
	logger   zerolog.Logger
}

// New creates an auditor sweeping at the default interval.
func New(db *gorm.DB, logger zerolog.Logger) (*Auditor, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}

	vaults := make(map[vault.Name]string, len(vault.Names))
	for _, name := range vault.Names {
		vaults[name] = vault.MustAddress(name)
	}

	return &Auditor{
		db:       db,
		ledger:   ledger.New(logger),
		clock:    func() time.Time { return time.Now().UTC() },
		vaults:   vaults,
		interval: DefaultInterval,
		logger:   logger.With().Str("component", "audit").Logger(),
	}, nil
}

// Run sweeps until the context is cancelled.
func (a *Auditor) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			findings, err := a.RunOnce(ctx)
			if err != nil {
				a.logger.Error().Err(err).Msg("Reconciliation sweep failed")
				continue
			}
			for _, finding := range findings {
				a.logger.Error().
					Str("check", finding.Check).
					Str("detail", finding.Detail).
					Msg("Invariant violation")
			}
		}
	}
}

// RunOnce performs a single sweep and returns every violation found.
func (a *Auditor) RunOnce(ctx context.Context) ([]Finding, error) {
	tx := a.db.WithContext(ctx)
	var findings []Finding

	supplyFindings, err := a.checkSupply(tx)
	if err != nil {
		return nil, err
	}
	findings = append(findings, supplyFindings...)

	presaleFindings, err := a.checkPresale(tx)
	if err != nil {
		return nil, err
	}
	findings = append(findings, presaleFindings...)

	miningFindings, err := a.checkMining(tx)
	if err != nil {
		return nil, err
	}
	findings = append(findings, miningFindings...)

	if err := a.publishGauges(tx); err != nil {
		return nil, err
	}

	a.logger.Debug().Int("findings", len(findings)).Msg("Reconciliation sweep completed")
	return findings, nil
}

// checkSupply verifies that circulating ELW never exceeds the fixed supply.
// Burns only destroy, so the sum of all balances must stay at or below it.
func (a *Auditor) checkSupply(tx *gorm.DB) ([]Finding, error) {
	var balances []models.VaultBalance
	if err := tx.Where("currency = ?", string(elw.ELW)).Find(&balances).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}

	var total uint64
	for _, balance := range balances {
		total = elw.SaturatingAdd(total, balance.Amount)
	}
	if total > elw.Supply {
		return []Finding{{
			Check:  "supply",
			Detail: fmt.Sprintf("circulating %d exceeds supply %d", total, elw.Supply),
		}}, nil
	}
	return nil, nil
}

// checkPresale verifies the sale never oversells and that the presale vault
// still covers every unclaimed purchase.
func (a *Auditor) checkPresale(tx *gorm.DB) ([]Finding, error) {
	var findings []Finding

	var summary models.PresaleSummary
	err := tx.First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch presale summary: %w", err)
	}

	if summary.TokenSold > summary.TotalAmount {
		findings = append(findings, Finding{
			Check:  "presale_oversold",
			Detail: fmt.Sprintf("sold %d of %d", summary.TokenSold, summary.TotalAmount),
		})
	}
	if summary.TokenSoldForUSDC+summary.TokenSoldForSOL != summary.TokenSold {
		findings = append(findings, Finding{
			Check:  "presale_split",
			Detail: fmt.Sprintf("per-currency sums %d+%d do not match total %d", summary.TokenSoldForUSDC, summary.TokenSoldForSOL, summary.TokenSold),
		})
	}

	var open []models.PurchaseRecord
	if err := tx.Where("state = ?", models.PurchaseOpen).Find(&open).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch open purchases: %w", err)
	}
	var owed uint64
	for _, record := range open {
		owed = elw.SaturatingAdd(owed, record.Amount)
	}

	held, err := a.ledger.Balance(tx, elw.ELW, a.vaults[vault.Presale])
	if err != nil {
		return nil, err
	}
	if owed > held {
		findings = append(findings, Finding{
			Check:  "presale_coverage",
			Detail: fmt.Sprintf("open purchases owe %d but vault holds %d", owed, held),
		})
	}

	return findings, nil
}

// checkMining verifies per-pool reward accounting and that the platform
// vault covers the locked liability.
func (a *Auditor) checkMining(tx *gorm.DB) ([]Finding, error) {
	var findings []Finding

	var pools []models.MiningPool
	if err := tx.Find(&pools).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch mining pools: %w", err)
	}

	for i := range pools {
		if pools[i].ClaimedReward > pools[i].TotalReward {
			findings = append(findings, Finding{
				Check:  "mining_overclaim",
				Detail: fmt.Sprintf("pool %s claimed %d of accrued %d", pools[i].Currency, pools[i].ClaimedReward, pools[i].TotalReward),
			})
		}
	}

	platformBalance, err := a.ledger.Balance(tx, elw.ELW, a.vaults[vault.Platform])
	if err != nil {
		return nil, err
	}
	locked := treasury.LockedTotal(pools, platformBalance, a.clock())
	metrics.MiningLockedReward.Set(float64(locked))

	if locked > platformBalance {
		findings = append(findings, Finding{
			Check:  "mining_coverage",
			Detail: fmt.Sprintf("locked rewards %d exceed platform balance %d", locked, platformBalance),
		})
	}

	return findings, nil
}

// publishGauges refreshes the per-vault balance gauges.
func (a *Auditor) publishGauges(tx *gorm.DB) error {
	for _, name := range vault.Names {
		var balances []models.VaultBalance
		if err := tx.Where("address = ?", a.vaults[name]).Find(&balances).Error; err != nil {
			return fmt.Errorf("failed to fetch %s vault balances: %w", name, err)
		}
		for _, balance := range balances {
			metrics.SetVaultBalance(string(name), balance.Currency, balance.Amount)
		}
	}
	return nil
}
