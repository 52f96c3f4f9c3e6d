package elw

import "fmt"

// Currency identifies a settlement asset.
type Currency string

const (
	USDC Currency = "usdc"
	SOL  Currency = "sol"
	ELW  Currency = "elw"
	WSOL Currency = "wsol"
)

// QuoteCurrencies are the settlement currencies mining pools exist for.
var QuoteCurrencies = []Currency{USDC, SOL}

// Decimals returns the fixed-point precision of the currency.
func (c Currency) Decimals() int {
	switch c {
	case USDC:
		return 6
	case SOL, ELW, WSOL:
		return 9
	}
	return 0
}

// Quote reports whether the currency settles purchases and mining pools.
func (c Currency) Quote() bool {
	for _, q := range QuoteCurrencies {
		if c == q {
			return true
		}
	}
	return false
}

// Valid reports whether the currency is one of the supported assets.
func (c Currency) Valid() bool {
	switch c {
	case USDC, SOL, ELW, WSOL:
		return true
	}
	return false
}

// ParseCurrency converts a string into a Currency.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return c, nil
}

// PresaleTier selects the lockup applied to a presale purchase.
type PresaleTier uint8

const (
	ThreeMonthsLockup PresaleTier = 1
	SixMonthsLockup   PresaleTier = 2
)

// LockupMonths returns the lockup length of the tier.
func (t PresaleTier) LockupMonths() int {
	if t == SixMonthsLockup {
		return 6
	}
	return 3
}

// Valid reports whether the tier is one of the configured lockups.
func (t PresaleTier) Valid() bool {
	return t == ThreeMonthsLockup || t == SixMonthsLockup
}
