package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/vault"
	"github.com/wnt/elwcore/internal/vesting"
)

// memberShare looks up a team member's configured share.
func (s *Service) memberShare(member string) (uint16, error) {
	for _, m := range s.members {
		if m.Address == member {
			return m.ShareBasisPoints, nil
		}
	}
	return 0, elw.ErrMemberShareNotFound
}

// ClaimTeamVesting pays a team member every vesting quarter reached since
// their last claim. Quarters vest at the presale end plus 3, 6, 9 and 12
// months; missed ones catch up in a single payout.
func (s *Service) ClaimTeamVesting(ctx context.Context, member string) error {
	share, err := s.memberShare(member)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	teamVault := s.vaults[vault.Team]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claim models.MemberClaim
		err := tx.Where("member = ?", member).First(&claim).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			claim = models.MemberClaim{Member: member}
		} else if err != nil {
			return fmt.Errorf("failed to fetch member claim: %w", err)
		}

		payout, lastPeriod, err := vesting.Claimable(s.rules.EndTime, now, share, claim.LastPeriod)
		if err != nil {
			return err
		}

		if err := s.ledger.Move(tx, elw.ELW, payout, teamVault, member, teamVault); err != nil {
			return err
		}

		claim.Amount = elw.SaturatingAdd(claim.Amount, payout)
		claim.LastPeriod = lastPeriod
		if err := tx.Save(&claim).Error; err != nil {
			return fmt.Errorf("failed to save member claim: %w", err)
		}

		s.logger.Info().
			Str("member", member).
			Uint64("payout", payout).
			Int64("period", lastPeriod).
			Msg("Team vesting claim")
		return nil
	})
}
