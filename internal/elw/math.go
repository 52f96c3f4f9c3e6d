package elw

import (
	"math"
	"time"

	"github.com/holiman/uint256"
)

const basisPointDenominator = 10_000

// CalculateByPercentage returns total * bp / 10000, floored. The
// intermediate product is computed in 256 bits so full-supply amounts
// cannot overflow.
func CalculateByPercentage(total uint64, bp uint16) uint64 {
	z := new(uint256.Int).Mul(uint256.NewInt(total), uint256.NewInt(uint64(bp)))
	z.Div(z, uint256.NewInt(basisPointDenominator))
	return z.Uint64()
}

// MulDiv returns a * b / div, floored, with a 256-bit intermediate.
// Division by zero returns zero.
func MulDiv(a, b, div uint64) uint64 {
	if div == 0 {
		return 0
	}
	z := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	z.Div(z, uint256.NewInt(div))
	return z.Uint64()
}

// RatioBasisPoints returns part/total scaled to basis points (two decimal
// places of percent), rounded half-up. The result saturates at the uint16
// range.
func RatioBasisPoints(part, total uint64) uint16 {
	if total == 0 {
		return 0
	}
	z := new(uint256.Int).Mul(uint256.NewInt(part), uint256.NewInt(basisPointDenominator))
	z.Add(z, uint256.NewInt(total/2))
	z.Div(z, uint256.NewInt(total))
	if !z.IsUint64() || z.Uint64() > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(z.Uint64())
}

// SaturatingAdd returns a + b, clamped at the uint64 range.
func SaturatingAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return math.MaxUint64
}

// SaturatingSub returns a - b, clamped at zero.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// MonthsLater adds calendar months to t, clamping the day of month so that
// e.g. Jan 31 + 1 month is Feb 28 rather than Mar 3.
func MonthsLater(t time.Time, months int) time.Time {
	t = t.UTC()
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
