package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/premium"
	"github.com/wnt/elwcore/internal/vault"
)

// BuyPremium takes a premium payment from the buyer. USDC goes to the
// treasury in full; an ELW payment burns a fixed share first.
func (s *Service) BuyPremium(ctx context.Context, buyer string, currency elw.Currency, amountToPay uint64) error {
	burnAmount, treasuryAmount, err := premium.Split(amountToPay, currency)
	if err != nil {
		return err
	}

	treasuryVault := s.vaults[vault.Treasury]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if burnAmount > 0 {
			if err := s.ledger.Burn(tx, currency, burnAmount, buyer, buyer); err != nil {
				return err
			}
		}
		if err := s.ledger.Move(tx, currency, treasuryAmount, buyer, treasuryVault, buyer); err != nil {
			return err
		}

		s.logger.Info().
			Str("buyer", buyer).
			Str("currency", string(currency)).
			Uint64("burned", burnAmount).
			Uint64("to_treasury", treasuryAmount).
			Msg("Premium purchase")
		return nil
	})
}
