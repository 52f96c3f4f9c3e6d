package models

import "gorm.io/gorm"

// VaultBalance is one balance of one asset held at an address. Vault
// addresses are derived deterministically from the vault name; user
// addresses hold their own balances. Owner is the only authority allowed to
// debit the balance.
type VaultBalance struct {
	gorm.Model
	Address  string `gorm:"size:44;uniqueIndex:idx_balances_address_currency;not null"`
	Currency string `gorm:"size:8;uniqueIndex:idx_balances_address_currency;not null"`
	Owner    string `gorm:"size:44;index;not null"`
	Amount   uint64 `gorm:"default:0"`
}
