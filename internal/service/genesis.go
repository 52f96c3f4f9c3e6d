package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/vault"
)

// genesisAllocations maps each funded vault to its share of Supply in basis
// points. The shares sum to 10000, so genesis mints the full supply.
var genesisAllocations = []struct {
	Vault      vault.Name
	Percentage uint16
}{
	{vault.Eda, elw.EdaPercentage},
	{vault.Team, elw.TeamPercentage},
	{vault.Reward, elw.RewardPercentage},
	{vault.Presale, elw.PresalePercentage},
	{vault.Liquidity, elw.LiquidityPercentage},
}

// Bootstrap mints the genesis allocation into the vaults. It is idempotent:
// once any vault balance exists the supply is considered issued and the call
// is a no-op.
func (s *Service) Bootstrap(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.VaultBalance{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check genesis state: %w", err)
		}
		if count > 0 {
			return nil
		}

		var minted uint64
		for _, allocation := range genesisAllocations {
			amount := elw.CalculateByPercentage(elw.Supply, allocation.Percentage)
			if err := s.ledger.Mint(tx, elw.ELW, amount, s.vaults[allocation.Vault]); err != nil {
				return fmt.Errorf("failed to fund %s vault: %w", allocation.Vault, err)
			}
			minted += amount
		}

		s.logger.Info().
			Uint64("minted", minted).
			Int("vaults", len(genesisAllocations)).
			Msg("Genesis allocation issued")
		return nil
	})
}
