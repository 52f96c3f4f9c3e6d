package elw

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateByPercentage(t *testing.T) {
	t.Run("floors the result", func(t *testing.T) {
		assert.Equal(t, uint64(12), CalculateByPercentage(125, 1000))
		assert.Equal(t, uint64(0), CalculateByPercentage(9, 1000))
	})

	t.Run("handles full supply without overflow", func(t *testing.T) {
		assert.Equal(t, Supply/10, CalculateByPercentage(Supply, 1000))
		assert.Equal(t, Supply/2, CalculateByPercentage(Supply, 5000))
		assert.Equal(t, Supply, CalculateByPercentage(Supply, 10000))
	})

	t.Run("zero percentage", func(t *testing.T) {
		assert.Equal(t, uint64(0), CalculateByPercentage(Supply, 0))
	})
}

func TestMulDiv(t *testing.T) {
	assert.Equal(t, uint64(50), MulDiv(100, 5, 10))
	assert.Equal(t, uint64(33), MulDiv(100, 1, 3))
	assert.Equal(t, uint64(0), MulDiv(100, 5, 0))

	// intermediate product exceeds 64 bits
	assert.Equal(t, uint64(math.MaxUint64/2), MulDiv(math.MaxUint64, 1, 2))
}

func TestRatioBasisPoints(t *testing.T) {
	t.Run("rounds half up", func(t *testing.T) {
		assert.Equal(t, uint16(3333), RatioBasisPoints(1, 3))
		assert.Equal(t, uint16(6667), RatioBasisPoints(2, 3))
		assert.Equal(t, uint16(5000), RatioBasisPoints(1, 2))
	})

	t.Run("zero total", func(t *testing.T) {
		assert.Equal(t, uint16(0), RatioBasisPoints(5, 0))
	})

	t.Run("saturates above uint16", func(t *testing.T) {
		assert.Equal(t, uint16(math.MaxUint16), RatioBasisPoints(10, 1))
	})
}

func TestSaturatingArithmetic(t *testing.T) {
	assert.Equal(t, uint64(5), SaturatingAdd(2, 3))
	assert.Equal(t, uint64(math.MaxUint64), SaturatingAdd(math.MaxUint64, 1))
	assert.Equal(t, uint64(1), SaturatingSub(3, 2))
	assert.Equal(t, uint64(0), SaturatingSub(2, 3))
}

func TestMonthsLater(t *testing.T) {
	t.Run("plain month addition", func(t *testing.T) {
		base := time.Date(2025, 3, 15, 12, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC), MonthsLater(base, 3))
	})

	t.Run("clamps the day of month", func(t *testing.T) {
		jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), MonthsLater(jan31, 1))

		// leap year
		jan31leap := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), MonthsLater(jan31leap, 1))
	})

	t.Run("crosses year boundary", func(t *testing.T) {
		base := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC), MonthsLater(base, 6))
	})
}
