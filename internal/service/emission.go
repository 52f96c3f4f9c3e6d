package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/emission"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/vault"
)

// ClaimEmissionReward pays a recipient their portion of the monthly
// distributions named by entries. Operator only: the caller vouches for the
// recipient's percentages. Payouts come from the reward vault and stop for
// good when it empties.
func (s *Service) ClaimEmissionReward(ctx context.Context, caller, recipient string, entries []emission.Entry) error {
	if err := s.requireOperator(caller); err != nil {
		return err
	}

	now := s.clock.Now()
	rewardVault := s.vaults[vault.Reward]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payout, err := emission.Payout(s.rules.EndTime, now, entries)
		if err != nil {
			return err
		}
		if payout == 0 {
			return elw.ErrNoClaimableRewards
		}

		available, err := s.ledger.Balance(tx, elw.ELW, rewardVault)
		if err != nil {
			return err
		}
		if available == 0 {
			return elw.ErrAllRewardsClaimed
		}
		if payout > available {
			return elw.ErrInsufficientReward
		}

		if err := s.ledger.Move(tx, elw.ELW, payout, rewardVault, recipient, rewardVault); err != nil {
			return err
		}

		var claim models.RewardClaim
		err = tx.Where("recipient = ?", recipient).First(&claim).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			claim = models.RewardClaim{Recipient: recipient}
		} else if err != nil {
			return fmt.Errorf("failed to fetch reward claim: %w", err)
		}

		claim.Amount = elw.SaturatingAdd(claim.Amount, payout)
		claim.ShareBasisPoints = emission.Share(claim.Amount)
		if err := tx.Save(&claim).Error; err != nil {
			return fmt.Errorf("failed to save reward claim: %w", err)
		}

		s.logger.Info().
			Str("recipient", recipient).
			Uint64("payout", payout).
			Uint16("share_bp", claim.ShareBasisPoints).
			Msg("Emission reward claim")
		return nil
	})
}
