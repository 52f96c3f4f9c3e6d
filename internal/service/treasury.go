package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/treasury"
	"github.com/wnt/elwcore/internal/vault"
)

// authorizePlatformSpend loads every mining pool and checks the amount
// against the withdrawal ceiling: the platform balance minus all locked
// mining rewards.
func (s *Service) authorizePlatformSpend(tx *gorm.DB, amount uint64, now int64) error {
	var pools []models.MiningPool
	if err := tx.Find(&pools).Error; err != nil {
		return fmt.Errorf("failed to fetch mining pools: %w", err)
	}
	platformBalance, err := s.ledger.Balance(tx, elw.ELW, s.vaults[vault.Platform])
	if err != nil {
		return err
	}
	return treasury.Authorize(amount, pools, platformBalance, unixTime(now))
}

// WithdrawPlatformBalance moves ELW from the platform vault to a recipient.
// Multisig only; the amount may not eat into locked mining rewards.
func (s *Service) WithdrawPlatformBalance(ctx context.Context, caller, to string, amount uint64) error {
	if err := s.requireMultisig(caller); err != nil {
		return err
	}

	now := s.clock.Now()
	platformVault := s.vaults[vault.Platform]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.authorizePlatformSpend(tx, amount, now.Unix()); err != nil {
			return err
		}
		if err := s.ledger.Move(tx, elw.ELW, amount, platformVault, to, platformVault); err != nil {
			return err
		}

		s.logger.Info().
			Str("to", to).
			Uint64("amount", amount).
			Msg("Platform balance withdrawal")
		return nil
	})
}

// BurnPlatformBalance destroys ELW held by the platform vault, under the
// same ceiling as a withdrawal. Multisig only.
func (s *Service) BurnPlatformBalance(ctx context.Context, caller string, amount uint64) error {
	if err := s.requireMultisig(caller); err != nil {
		return err
	}

	now := s.clock.Now()
	platformVault := s.vaults[vault.Platform]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.authorizePlatformSpend(tx, amount, now.Unix()); err != nil {
			return err
		}
		if err := s.ledger.Burn(tx, elw.ELW, amount, platformVault, platformVault); err != nil {
			return err
		}

		s.logger.Info().Uint64("amount", amount).Msg("Platform balance burn")
		return nil
	})
}

// WithdrawAuthority moves funds out of a named vault to a recipient.
// Multisig only. The platform vault is excluded here: its spending goes
// through the mining-aware ceiling above.
func (s *Service) WithdrawAuthority(ctx context.Context, caller string, name vault.Name, currency elw.Currency, amount uint64, to string) error {
	if err := s.requireMultisig(caller); err != nil {
		return err
	}
	if !name.Valid() || name == vault.Platform {
		return fmt.Errorf("vault %q is not withdrawable", name)
	}
	if !currency.Valid() {
		return elw.ErrInvalidCurrency
	}

	source := s.vaults[name]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.Move(tx, currency, amount, source, to, source); err != nil {
			return err
		}

		s.logger.Info().
			Str("vault", string(name)).
			Str("currency", string(currency)).
			Str("to", to).
			Uint64("amount", amount).
			Msg("Authority withdrawal")
		return nil
	})
}
