package premium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnt/elwcore/internal/elw"
)

func TestSplit(t *testing.T) {
	t.Run("usdc goes to the treasury in full", func(t *testing.T) {
		burn, treasury, err := Split(5_000_000, elw.USDC)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), burn)
		assert.Equal(t, uint64(5_000_000), treasury)
	})

	t.Run("elw burns twenty percent", func(t *testing.T) {
		burn, treasury, err := Split(1_000_000_000, elw.ELW)
		require.NoError(t, err)
		assert.Equal(t, uint64(200_000_000), burn)
		assert.Equal(t, uint64(800_000_000), treasury)
	})

	t.Run("burn floors on odd amounts", func(t *testing.T) {
		burn, treasury, err := Split(9, elw.ELW)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), burn)
		assert.Equal(t, uint64(8), treasury)
		assert.Equal(t, uint64(9), burn+treasury)
	})

	t.Run("other currencies are refused", func(t *testing.T) {
		_, _, err := Split(1_000, elw.SOL)
		assert.ErrorIs(t, err, elw.ErrInvalidCurrency)
	})
}
