package models

import "gorm.io/gorm"

// RewardClaim tracks one recipient's cumulative emission reward claims and
// the recipient's resulting share of the fixed total reward pool, in basis
// points (two decimal places of percent).
type RewardClaim struct {
	gorm.Model
	Recipient        string `gorm:"size:44;uniqueIndex;not null"`
	Amount           uint64 `gorm:"default:0"`
	ShareBasisPoints uint16 `gorm:"default:0"`
}
