package oracle

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/metrics"
	"github.com/wnt/elwcore/internal/utils"
)

// feedIDs maps settlement currencies to Hermes price feed identifiers.
// USDC settles at par, so only SOL needs a feed.
var feedIDs = map[elw.Currency]string{
	elw.SOL: "ef0d8b6fda2ceba41da15d4095d1da392a0d2f8ed0c6c7bc0f4cfac8c280b56d",
}

// HermesClient fetches latest price updates from a pool of Hermes
// endpoints.
type HermesClient struct {
	pool    *Pool
	clients map[string]*utils.HTTPClient
	logger  zerolog.Logger
}

// NewHermesClient creates a client over the given Hermes endpoint URLs.
func NewHermesClient(endpoints []string, logger zerolog.Logger) *HermesClient {
	clients := make(map[string]*utils.HTTPClient, len(endpoints))
	for _, url := range endpoints {
		clients[url] = utils.NewHTTPClient(
			utils.WithBaseURL(url),
			utils.WithTimeout(10*time.Second),
			utils.WithRetries(2, 300*time.Millisecond),
		)
	}

	return &HermesClient{
		pool:    NewPool(endpoints, logger),
		clients: clients,
		logger:  logger.With().Str("component", "hermes").Logger(),
	}
}

type hermesPrice struct {
	Price       string `json:"price"`
	Conf        string `json:"conf"`
	Expo        int32  `json:"expo"`
	PublishTime int64  `json:"publish_time"`
}

type hermesUpdate struct {
	ID    string      `json:"id"`
	Price hermesPrice `json:"price"`
}

type hermesResponse struct {
	Parsed []hermesUpdate `json:"parsed"`
}

// Quote fetches the latest quote for the currency from the next healthy
// endpoint.
func (c *HermesClient) Quote(ctx context.Context, currency elw.Currency) (Quote, error) {
	feed, ok := feedIDs[currency]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnsupportedFeed, currency)
	}

	_, url, err := c.pool.Get(ctx)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to select endpoint: %w", err)
	}

	resp, err := c.clients[url].Do(&utils.Request{
		Method: "GET",
		Path:   "/v2/updates/price/latest",
		QueryParams: map[string]string{
			"ids[]": "0x" + feed,
		},
		Context: ctx,
	})
	if err != nil {
		metrics.RecordOracleRequest("failed")
		c.pool.MarkUnhealthy(url)
		return Quote{}, fmt.Errorf("failed to fetch price update: %w", err)
	}
	c.pool.MarkHealthy(url)

	var update hermesResponse
	if err := resp.DecodeJSON(&update); err != nil {
		metrics.RecordOracleRequest("failed")
		return Quote{}, fmt.Errorf("failed to decode price update: %w", err)
	}
	if len(update.Parsed) == 0 {
		metrics.RecordOracleRequest("failed")
		return Quote{}, fmt.Errorf("price update for %s contained no parsed feeds", currency)
	}

	parsed := update.Parsed[0].Price
	price, err := strconv.ParseInt(parsed.Price, 10, 64)
	if err != nil {
		metrics.RecordOracleRequest("failed")
		return Quote{}, fmt.Errorf("failed to parse price %q: %w", parsed.Price, err)
	}
	conf, err := strconv.ParseUint(parsed.Conf, 10, 64)
	if err != nil {
		metrics.RecordOracleRequest("failed")
		return Quote{}, fmt.Errorf("failed to parse confidence %q: %w", parsed.Conf, err)
	}

	metrics.RecordOracleRequest("success")
	c.logger.Debug().
		Str("currency", string(currency)).
		Int64("price", price).
		Uint64("conf", conf).
		Int32("expo", parsed.Expo).
		Int64("publish_time", parsed.PublishTime).
		Msg("Fetched price update")

	return Quote{Price: price, Conf: conf, Expo: parsed.Expo}, nil
}
