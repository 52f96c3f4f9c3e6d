package models

import "gorm.io/gorm"

// MemberClaim tracks one team member's vesting payouts. LastPeriod is the
// unix timestamp of the newest checkpoint already paid; a claim that catches
// up several missed quarters advances it in one step.
type MemberClaim struct {
	gorm.Model
	Member     string `gorm:"size:44;uniqueIndex;not null"`
	Amount     uint64 `gorm:"default:0"`
	LastPeriod int64  `gorm:"default:0"`
}
