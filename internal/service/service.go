package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/amm"
	"github.com/wnt/elwcore/internal/clock"
	"github.com/wnt/elwcore/internal/config"
	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/ledger"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/oracle"
	"github.com/wnt/elwcore/internal/presale"
	"github.com/wnt/elwcore/internal/vault"
)

// Service executes every platform action. Each public method runs inside a
// single database transaction with a single sampled clock reading, so an
// action either applies completely or leaves no trace.
type Service struct {
	db     *gorm.DB
	ledger *ledger.Ledger
	rules  presale.Rules
	oracle oracle.PriceOracle
	pools  amm.PoolClient
	clock  clock.Clock

	operator string
	multisig string
	members  []config.TeamMember

	vaults map[vault.Name]string

	logger zerolog.Logger
}

// New wires a service from its collaborators. Vault addresses are derived
// once up front.
func New(
	db *gorm.DB,
	cfg config.Config,
	priceOracle oracle.PriceOracle,
	poolClient amm.PoolClient,
	clk clock.Clock,
	logger zerolog.Logger,
) *Service {
	vaults := make(map[vault.Name]string, len(vault.Names))
	for _, name := range vault.Names {
		vaults[name] = vault.MustAddress(name)
	}

	return &Service{
		db:     db,
		ledger: ledger.New(logger),
		rules: presale.Rules{
			PriceThreeMonths:    cfg.PresalePriceThreeMonths,
			PriceSixMonths:      cfg.PresalePriceSixMonths,
			MinimumContribution: cfg.PresaleMinContribution,
			MaximumContribution: cfg.PresaleMaxContribution,
			TotalAmount:         cfg.PresaleTotalAmount,
			StartTime:           unixTime(cfg.PresaleStart),
			EndTime:             unixTime(cfg.PresaleEnd),
		},
		oracle:   priceOracle,
		pools:    poolClient,
		clock:    clk,
		operator: cfg.OperatorAddress,
		multisig: cfg.MultisigAddress,
		members:  cfg.TeamMembers,
		vaults:   vaults,
		logger:   logger.With().Str("component", "service").Logger(),
	}
}

// Rules exposes the presale terms the service runs under.
func (s *Service) Rules() presale.Rules {
	return s.rules
}

// VaultAddress returns the derived address of a named vault.
func (s *Service) VaultAddress(name vault.Name) string {
	return s.vaults[name]
}

func (s *Service) requireOperator(caller string) error {
	if caller != s.operator {
		return elw.ErrUnauthorized
	}
	return nil
}

func (s *Service) requireMultisig(caller string) error {
	if caller != s.multisig {
		return elw.ErrUnauthorized
	}
	return nil
}

// loadSummary fetches the global presale summary, creating it on first use.
func (s *Service) loadSummary(tx *gorm.DB) (*models.PresaleSummary, error) {
	var summary models.PresaleSummary
	err := tx.First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.PresaleSummary{State: models.SummaryActive}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch presale summary: %w", err)
	}
	return &summary, nil
}

// loadPurchase fetches a buyer's record for a tier. With create set, a
// missing record starts empty instead of failing.
func (s *Service) loadPurchase(tx *gorm.DB, buyer string, tier elw.PresaleTier, create bool) (*models.PurchaseRecord, error) {
	var record models.PurchaseRecord
	err := tx.Where("buyer = ? AND tier = ?", buyer, uint8(tier)).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if !create {
			return nil, fmt.Errorf("no purchase record for %s tier %d: %w", buyer, tier, err)
		}
		return &models.PurchaseRecord{Buyer: buyer, Tier: uint8(tier), State: models.PurchaseOpen}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase record: %w", err)
	}
	return &record, nil
}

func unixTime(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}

// purchasedTotal sums a buyer's purchases across both tiers, for the
// per-buyer contribution ceiling.
func (s *Service) purchasedTotal(tx *gorm.DB, buyer string) (uint64, error) {
	var records []models.PurchaseRecord
	if err := tx.Where("buyer = ?", buyer).Find(&records).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch purchase records: %w", err)
	}
	var total uint64
	for _, record := range records {
		total = elw.SaturatingAdd(total, record.Amount)
	}
	return total, nil
}
