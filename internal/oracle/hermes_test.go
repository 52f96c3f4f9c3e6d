package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnt/elwcore/internal/elw"
)

func TestHermesQuote(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		assert.Equal(t, "0x"+feedIDs[elw.SOL], r.URL.Query().Get("ids[]"))
		fmt.Fprint(w, `{"parsed":[{"id":"`+feedIDs[elw.SOL]+`","price":{"price":"5000000000","conf":"2500000","expo":-8,"publish_time":1735689600}}]}`)
	}))
	defer server.Close()

	client := NewHermesClient([]string{server.URL}, zerolog.Nop())

	quote, err := client.Quote(context.Background(), elw.SOL)
	require.NoError(t, err)
	assert.Equal(t, "/v2/updates/price/latest", requestedPath)
	assert.Equal(t, int64(5000000000), quote.Price)
	assert.Equal(t, uint64(2500000), quote.Conf)
	assert.Equal(t, int32(-8), quote.Expo)
}

func TestHermesQuoteErrors(t *testing.T) {
	t.Run("currency without a feed", func(t *testing.T) {
		client := NewHermesClient([]string{"http://localhost:0"}, zerolog.Nop())
		_, err := client.Quote(context.Background(), elw.ELW)
		assert.ErrorIs(t, err, ErrUnsupportedFeed)
	})

	t.Run("empty parsed list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"parsed":[]}`)
		}))
		defer server.Close()

		client := NewHermesClient([]string{server.URL}, zerolog.Nop())
		_, err := client.Quote(context.Background(), elw.SOL)
		assert.ErrorContains(t, err, "no parsed feeds")
	})

	t.Run("malformed price", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"parsed":[{"price":{"price":"not-a-number","conf":"1","expo":0}}]}`)
		}))
		defer server.Close()

		client := NewHermesClient([]string{server.URL}, zerolog.Nop())
		_, err := client.Quote(context.Background(), elw.SOL)
		assert.ErrorContains(t, err, "failed to parse price")
	})
}

func TestStaticQuote(t *testing.T) {
	static := Static{Quotes: map[elw.Currency]Quote{
		elw.SOL: {Price: 50_0000_0000, Conf: 100, Expo: -8},
	}}

	quote, err := static.Quote(context.Background(), elw.SOL)
	require.NoError(t, err)
	assert.Equal(t, int64(50_0000_0000), quote.Price)

	_, err = static.Quote(context.Background(), elw.USDC)
	assert.ErrorIs(t, err, ErrUnsupportedFeed)
}

func TestPoolRotation(t *testing.T) {
	pool := NewPool([]string{"http://a", "http://b"}, zerolog.Nop())

	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		_, url, err := pool.Get(context.Background())
		require.NoError(t, err)
		seen[url] = true
	}
	assert.Len(t, seen, 2)

	t.Run("unhealthy endpoint leaves rotation", func(t *testing.T) {
		pool.MarkUnhealthy("http://a")
		for i := 0; i < 3; i++ {
			_, url, err := pool.Get(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "http://b", url)
		}

		pool.MarkHealthy("http://a")
	})
}
