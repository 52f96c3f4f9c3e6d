package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/presale"
	"github.com/wnt/elwcore/internal/vault"
)

// BuyPresale admits a purchase of amountToBuy token base units under the
// given lockup tier, settled in currency. The payment is split between the
// EDA and liquidity vaults; the purchased tokens stay locked in the presale
// vault until the claim.
func (s *Service) BuyPresale(ctx context.Context, buyer string, tier elw.PresaleTier, currency elw.Currency, amountToBuy uint64) error {
	if !tier.Valid() {
		return elw.ErrInvalidTier
	}
	if !currency.Quote() {
		return elw.ErrInvalidCurrency
	}

	now := s.clock.Now()

	// Price before opening the transaction; the oracle call is the only
	// network dependency of the purchase.
	payment, carve := s.rules.PaymentAndCarve(amountToBuy, tier)
	if currency == elw.SOL {
		quote, err := s.oracle.Quote(ctx, elw.SOL)
		if err != nil {
			return fmt.Errorf("failed to fetch SOL quote: %w", err)
		}
		payment = presale.SolAmount(payment, quote)
		carve = presale.SolAmount(carve, quote)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		summary, err := s.loadSummary(tx)
		if err != nil {
			return err
		}
		record, err := s.loadPurchase(tx, buyer, tier, true)
		if err != nil {
			return err
		}
		alreadyPurchased, err := s.purchasedTotal(tx, buyer)
		if err != nil {
			return err
		}

		if err := s.rules.Conditions(now, amountToBuy, summary.TokenSold, alreadyPurchased); err != nil {
			return err
		}

		if err := s.ledger.Move(tx, currency, carve, buyer, s.vaults[vault.Eda], buyer); err != nil {
			return err
		}
		if err := s.ledger.Move(tx, currency, payment, buyer, s.vaults[vault.Liquidity], buyer); err != nil {
			return err
		}

		s.rules.ApplyPurchase(summary, record, tier, currency, amountToBuy, payment, carve)
		if err := tx.Save(summary).Error; err != nil {
			return fmt.Errorf("failed to save presale summary: %w", err)
		}
		if err := tx.Save(record).Error; err != nil {
			return fmt.Errorf("failed to save purchase record: %w", err)
		}

		s.logger.Info().
			Str("buyer", buyer).
			Uint8("tier", uint8(tier)).
			Str("currency", string(currency)).
			Uint64("amount", amountToBuy).
			Uint64("payment", payment).
			Uint64("carve", carve).
			Msg("Presale purchase")
		return nil
	})
}

// ClaimPresale pays out a buyer's accumulated purchase for a tier once the
// lockup has passed. The record closes permanently; when the presale vault
// drains to zero its balance row is removed.
func (s *Service) ClaimPresale(ctx context.Context, buyer string, tier elw.PresaleTier) error {
	if !tier.Valid() {
		return elw.ErrInvalidTier
	}

	now := s.clock.Now()
	presaleVault := s.vaults[vault.Presale]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.loadPurchase(tx, buyer, tier, false)
		if err != nil {
			return err
		}
		if err := s.rules.AuthorizeClaim(now, record); err != nil {
			return err
		}

		if err := s.ledger.Move(tx, elw.ELW, record.Amount, presaleVault, buyer, presaleVault); err != nil {
			return err
		}

		record.State = models.PurchaseClaimed
		if err := tx.Save(record).Error; err != nil {
			return fmt.Errorf("failed to save purchase record: %w", err)
		}

		remaining, err := s.ledger.Balance(tx, elw.ELW, presaleVault)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := s.ledger.Close(tx, elw.ELW, presaleVault, presaleVault); err != nil {
				return err
			}
		}

		s.logger.Info().
			Str("buyer", buyer).
			Uint8("tier", uint8(tier)).
			Uint64("amount", record.Amount).
			Msg("Presale claim")
		return nil
	})
}

// BurnUnsoldPresale destroys whatever part of the presale allocation never
// sold. Operator only; runs once, after the sale window closes.
func (s *Service) BurnUnsoldPresale(ctx context.Context, caller string) error {
	if err := s.requireOperator(caller); err != nil {
		return err
	}

	now := s.clock.Now()
	presaleVault := s.vaults[vault.Presale]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		summary, err := s.loadSummary(tx)
		if err != nil {
			return err
		}
		burnAmount, err := s.rules.AuthorizeBurnUnsold(now, summary)
		if err != nil {
			return err
		}

		if err := s.ledger.Burn(tx, elw.ELW, burnAmount, presaleVault, presaleVault); err != nil {
			return err
		}

		summary.State = models.SummaryBurned
		if err := tx.Save(summary).Error; err != nil {
			return fmt.Errorf("failed to save presale summary: %w", err)
		}

		s.logger.Info().Uint64("burned", burnAmount).Msg("Unsold presale tokens burned")
		return nil
	})
}
