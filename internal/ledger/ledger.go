package ledger

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/models"
)

// Ledger moves value between balances stored as rows. Every balance is
// addressed by (address, currency) and may only be debited by the authority
// that owns it. All operations run inside the caller's transaction, so a
// failed action leaves no partial state behind.
type Ledger struct {
	logger zerolog.Logger
}

// New creates a ledger that logs balance movements.
func New(logger zerolog.Logger) *Ledger {
	return &Ledger{
		logger: logger.With().Str("component", "ledger").Logger(),
	}
}

// Balance returns the amount held by address in currency. A missing row is
// a zero balance.
func (l *Ledger) Balance(tx *gorm.DB, currency elw.Currency, address string) (uint64, error) {
	row, err := l.find(tx, currency, address)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return row.Amount, nil
}

// Mint credits newly issued value to an address.
func (l *Ledger) Mint(tx *gorm.DB, currency elw.Currency, amount uint64, to string) error {
	if err := l.credit(tx, currency, amount, to); err != nil {
		return err
	}
	l.logger.Debug().
		Str("currency", string(currency)).
		Str("to", to).
		Uint64("amount", amount).
		Msg("Minted")
	return nil
}

// Move debits from and credits to. The debit requires the authority that
// owns the source balance; the engine supplies the derived vault address
// when it spends from a vault.
func (l *Ledger) Move(tx *gorm.DB, currency elw.Currency, amount uint64, from, to, authority string) error {
	if amount == 0 {
		return nil
	}
	if err := l.debit(tx, currency, amount, from, authority); err != nil {
		return err
	}
	if err := l.credit(tx, currency, amount, to); err != nil {
		return err
	}
	l.logger.Debug().
		Str("currency", string(currency)).
		Str("from", from).
		Str("to", to).
		Uint64("amount", amount).
		Msg("Moved")
	return nil
}

// Burn destroys value held at from. The same authority rule as Move applies.
func (l *Ledger) Burn(tx *gorm.DB, currency elw.Currency, amount uint64, from, authority string) error {
	if amount == 0 {
		return nil
	}
	if err := l.debit(tx, currency, amount, from, authority); err != nil {
		return err
	}
	l.logger.Info().
		Str("currency", string(currency)).
		Str("from", from).
		Uint64("amount", amount).
		Msg("Burned")
	return nil
}

// Close removes an emptied balance row. Closing a balance that still holds
// value is refused.
func (l *Ledger) Close(tx *gorm.DB, currency elw.Currency, address, authority string) error {
	row, err := l.find(tx, currency, address)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}
	if row.Owner != authority {
		return elw.ErrUnauthorized
	}
	if row.Amount != 0 {
		return fmt.Errorf("cannot close %s balance of %s: %d remaining", currency, address, row.Amount)
	}
	if err := tx.Unscoped().Delete(row).Error; err != nil {
		return fmt.Errorf("failed to close balance: %w", err)
	}
	return nil
}

func (l *Ledger) find(tx *gorm.DB, currency elw.Currency, address string) (*models.VaultBalance, error) {
	var row models.VaultBalance
	err := tx.Where("address = ? AND currency = ?", address, string(currency)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance: %w", err)
	}
	return &row, nil
}

func (l *Ledger) debit(tx *gorm.DB, currency elw.Currency, amount uint64, from, authority string) error {
	row, err := l.find(tx, currency, from)
	if err != nil {
		return err
	}
	if row == nil {
		return elw.ErrInsufficientBalance
	}
	if row.Owner != authority {
		return elw.ErrUnauthorized
	}
	if row.Amount < amount {
		return elw.ErrInsufficientBalance
	}
	row.Amount -= amount
	if err := tx.Save(row).Error; err != nil {
		return fmt.Errorf("failed to save debited balance: %w", err)
	}
	return nil
}

func (l *Ledger) credit(tx *gorm.DB, currency elw.Currency, amount uint64, to string) error {
	row, err := l.find(tx, currency, to)
	if err != nil {
		return err
	}
	if row == nil {
		row = &models.VaultBalance{
			Address:  to,
			Currency: string(currency),
			Owner:    to,
		}
	}
	row.Amount = elw.SaturatingAdd(row.Amount, amount)
	if err := tx.Save(row).Error; err != nil {
		return fmt.Errorf("failed to save credited balance: %w", err)
	}
	return nil
}
