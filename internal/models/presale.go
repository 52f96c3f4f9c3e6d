package models

import (
	"gorm.io/gorm"
)

// Record states. Terminal transitions are one-way: a claimed purchase never
// reopens and a burned summary never becomes active again.
const (
	PurchaseOpen    = "open"
	PurchaseClaimed = "claimed"

	SummaryActive = "active"
	SummaryBurned = "burned"
)

// PresaleSummary is the single global record of presale progress. It is
// created on the first purchase and mutated by every purchase; the burn of
// unsold tokens is its terminal mutation.
type PresaleSummary struct {
	gorm.Model
	TotalAmount uint64 `gorm:"default:0"`
	TokenSold   uint64 `gorm:"default:0"`

	// Per settlement currency
	TokenSoldForUSDC uint64 `gorm:"default:0"`
	TokenSoldForSOL  uint64 `gorm:"default:0"`
	USDCRaised       uint64 `gorm:"default:0"`
	SolRaised        uint64 `gorm:"default:0"`

	// Funds routed to destination vaults
	USDCSentToEda       uint64 `gorm:"default:0"`
	USDCSentToLiquidity uint64 `gorm:"default:0"`
	SolSentToEda        uint64 `gorm:"default:0"`
	SolSentToLiquidity  uint64 `gorm:"default:0"`

	State string `gorm:"size:16;default:active;not null"`
}

// Burned reports whether the unsold-token burn already happened.
func (s *PresaleSummary) Burned() bool {
	return s.State == SummaryBurned
}

// PurchaseRecord accumulates one buyer's presale purchases for one lockup
// tier. Repeated purchases add to Amount and restamp the unlock time; the
// claim pays the full accumulated amount once and closes the record.
type PurchaseRecord struct {
	gorm.Model
	Buyer      string `gorm:"size:44;uniqueIndex:idx_purchases_buyer_tier;not null"`
	Tier       uint8  `gorm:"uniqueIndex:idx_purchases_buyer_tier;not null"`
	Amount     uint64 `gorm:"default:0"`
	UnlockTime int64  `gorm:"index"`
	State      string `gorm:"size:16;default:open;not null"`
}

// Claimed reports whether the one-shot payout already happened.
func (p *PurchaseRecord) Claimed() bool {
	return p.State == PurchaseClaimed
}
