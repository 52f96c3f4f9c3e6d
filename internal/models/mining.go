package models

import "gorm.io/gorm"

// MiningPool is the per-settlement-currency mining ledger. TotalReward is
// the gross accrued reward and is monotonic non-decreasing between updates;
// ClaimedReward counts what has already been paid out of it.
type MiningPool struct {
	gorm.Model
	Currency      string `gorm:"size:8;uniqueIndex;not null"`
	BaseAmount    uint64 `gorm:"default:0"` // deposited ELW principal across all miners
	QuoteAmount   uint64 `gorm:"default:0"` // deposited quote-token principal
	TotalReward   uint64 `gorm:"default:0"`
	ClaimedReward uint64 `gorm:"default:0"`
	LastUpdate    int64  `gorm:"default:0"`
}

// UnclaimedReward is the accrued reward not yet paid out.
func (p *MiningPool) UnclaimedReward() uint64 {
	if p.ClaimedReward > p.TotalReward {
		return 0
	}
	return p.TotalReward - p.ClaimedReward
}

// MinerPosition is one miner's stake in a mining pool. RewardSnapshot holds
// the miner's pro-rata share of the pool's accrued total as of the last
// synchronization; ClaimedReward is the cumulative amount already paid.
type MinerPosition struct {
	gorm.Model
	Miner          string `gorm:"size:44;uniqueIndex:idx_positions_miner_currency;not null"`
	Currency       string `gorm:"size:8;uniqueIndex:idx_positions_miner_currency;not null"`
	BaseAmount     uint64 `gorm:"default:0"`
	QuoteAmount    uint64 `gorm:"default:0"`
	RewardSnapshot uint64 `gorm:"default:0"`
	ClaimedReward  uint64 `gorm:"default:0"`
}
