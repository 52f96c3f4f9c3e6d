package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/mining"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/vault"
)

// loadPool fetches the mining pool for a quote currency, creating it on
// first use.
func (s *Service) loadPool(tx *gorm.DB, currency elw.Currency) (*models.MiningPool, error) {
	var pool models.MiningPool
	err := tx.Where("currency = ?", string(currency)).First(&pool).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.MiningPool{Currency: string(currency)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mining pool: %w", err)
	}
	return &pool, nil
}

// loadPosition fetches a miner's position in a pool, creating it on first
// use.
func (s *Service) loadPosition(tx *gorm.DB, miner string, currency elw.Currency) (*models.MinerPosition, error) {
	var position models.MinerPosition
	err := tx.Where("miner = ? AND currency = ?", miner, string(currency)).First(&position).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.MinerPosition{Miner: miner, Currency: string(currency)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch miner position: %w", err)
	}
	return &position, nil
}

func (s *Service) savePoolAndPosition(tx *gorm.DB, pool *models.MiningPool, position *models.MinerPosition) error {
	if err := tx.Save(pool).Error; err != nil {
		return fmt.Errorf("failed to save mining pool: %w", err)
	}
	if err := tx.Save(position).Error; err != nil {
		return fmt.Errorf("failed to save miner position: %w", err)
	}
	return nil
}

// DepositMining stakes ELW and quote-token principal into the pool for the
// quote currency. The external position reports the amounts actually
// applied; the principal lands in the liquidity vault.
func (s *Service) DepositMining(ctx context.Context, miner string, currency elw.Currency, baseAmount, quoteAmount uint64) error {
	if !currency.Quote() {
		return elw.ErrInvalidCurrency
	}

	delta, err := s.pools.Deposit(ctx, currency, baseAmount, quoteAmount)
	if err != nil {
		return fmt.Errorf("failed to deposit into liquidity position: %w", err)
	}

	now := s.clock.Now()
	liquidityVault := s.vaults[vault.Liquidity]
	platformVault := s.vaults[vault.Platform]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pool, err := s.loadPool(tx, currency)
		if err != nil {
			return err
		}
		position, err := s.loadPosition(tx, miner, currency)
		if err != nil {
			return err
		}
		platformBalance, err := s.ledger.Balance(tx, elw.ELW, platformVault)
		if err != nil {
			return err
		}

		mining.Sync(pool, position, platformBalance, delta.BaseAmount, delta.QuoteAmount, mining.ActionDeposit, now)

		if err := s.ledger.Move(tx, elw.ELW, delta.BaseAmount, miner, liquidityVault, miner); err != nil {
			return err
		}
		if err := s.ledger.Move(tx, currency, delta.QuoteAmount, miner, liquidityVault, miner); err != nil {
			return err
		}
		if err := s.savePoolAndPosition(tx, pool, position); err != nil {
			return err
		}

		s.logger.Info().
			Str("miner", miner).
			Str("currency", string(currency)).
			Uint64("base", delta.BaseAmount).
			Uint64("quote", delta.QuoteAmount).
			Msg("Mining deposit")
		return nil
	})
}

// WithdrawMining returns staked principal to the miner. Accrued rewards
// stay claimable afterwards.
func (s *Service) WithdrawMining(ctx context.Context, miner string, currency elw.Currency, baseAmount, quoteAmount uint64) error {
	if !currency.Quote() {
		return elw.ErrInvalidCurrency
	}

	delta, err := s.pools.Withdraw(ctx, currency, baseAmount, quoteAmount)
	if err != nil {
		return fmt.Errorf("failed to withdraw from liquidity position: %w", err)
	}

	now := s.clock.Now()
	liquidityVault := s.vaults[vault.Liquidity]
	platformVault := s.vaults[vault.Platform]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pool, err := s.loadPool(tx, currency)
		if err != nil {
			return err
		}
		position, err := s.loadPosition(tx, miner, currency)
		if err != nil {
			return err
		}
		if delta.BaseAmount > position.BaseAmount || delta.QuoteAmount > position.QuoteAmount {
			return elw.ErrNotEnoughInVault
		}
		platformBalance, err := s.ledger.Balance(tx, elw.ELW, platformVault)
		if err != nil {
			return err
		}

		mining.Sync(pool, position, platformBalance, delta.BaseAmount, delta.QuoteAmount, mining.ActionWithdraw, now)

		if err := s.ledger.Move(tx, elw.ELW, delta.BaseAmount, liquidityVault, miner, liquidityVault); err != nil {
			return err
		}
		if err := s.ledger.Move(tx, currency, delta.QuoteAmount, liquidityVault, miner, liquidityVault); err != nil {
			return err
		}
		if err := s.savePoolAndPosition(tx, pool, position); err != nil {
			return err
		}

		s.logger.Info().
			Str("miner", miner).
			Str("currency", string(currency)).
			Uint64("base", delta.BaseAmount).
			Uint64("quote", delta.QuoteAmount).
			Msg("Mining withdrawal")
		return nil
	})
}

// ClaimMiningReward pays the miner's accrued reward out of the platform
// vault.
func (s *Service) ClaimMiningReward(ctx context.Context, miner string, currency elw.Currency) error {
	if !currency.Quote() {
		return elw.ErrInvalidCurrency
	}

	now := s.clock.Now()
	platformVault := s.vaults[vault.Platform]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pool, err := s.loadPool(tx, currency)
		if err != nil {
			return err
		}
		position, err := s.loadPosition(tx, miner, currency)
		if err != nil {
			return err
		}
		platformBalance, err := s.ledger.Balance(tx, elw.ELW, platformVault)
		if err != nil {
			return err
		}

		claimable := mining.Sync(pool, position, platformBalance, 0, 0, mining.ActionClaim, now)
		if claimable == 0 {
			return elw.ErrNoClaimableRewards
		}

		if err := s.ledger.Move(tx, elw.ELW, claimable, platformVault, miner, platformVault); err != nil {
			return err
		}
		if err := s.savePoolAndPosition(tx, pool, position); err != nil {
			return err
		}

		s.logger.Info().
			Str("miner", miner).
			Str("currency", string(currency)).
			Uint64("reward", claimable).
			Msg("Mining reward claim")
		return nil
	})
}
