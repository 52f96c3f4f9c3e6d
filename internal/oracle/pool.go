package oracle

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/wnt/elwcore/internal/metrics"
)

// Pool manages a set of price-feed endpoints with round-robin selection and
// per-endpoint rate limiting.
type Pool struct {
	endpoints []*Endpoint
	current   int
	mutex     sync.Mutex
	logger    zerolog.Logger
}

// Endpoint is a single price-feed endpoint with its own rate limiter.
type Endpoint struct {
	URL     string
	client  *http.Client
	limiter *rate.Limiter
	healthy bool
	mutex   sync.RWMutex
}

// NewPool creates a pool over the given endpoint URLs.
func NewPool(urls []string, logger zerolog.Logger) *Pool {
	endpoints := make([]*Endpoint, len(urls))
	for i, url := range urls {
		endpoints[i] = &Endpoint{
			URL: url,
			client: &http.Client{
				Timeout: 10 * time.Second,
			},
			// Stay well under public feed rate limits
			limiter: rate.NewLimiter(rate.Limit(2.0), 5),
			healthy: true,
		}
		metrics.SetOracleEndpointHealth(url, true)
	}

	return &Pool{
		endpoints: endpoints,
		current:   rand.Intn(len(endpoints)),
		logger:    logger.With().Str("component", "oracle_pool").Logger(),
	}
}

// Get returns the next available endpoint using round-robin, waiting on its
// rate limiter when every endpoint is saturated.
func (p *Pool) Get(ctx context.Context) (*http.Client, string, error) {
	p.mutex.Lock()
	startIndex := p.current

	for attempts := 0; attempts < len(p.endpoints); attempts++ {
		endpoint := p.endpoints[p.current]
		p.current = (p.current + 1) % len(p.endpoints)

		endpoint.mutex.RLock()
		healthy := endpoint.healthy
		endpoint.mutex.RUnlock()

		if !healthy {
			continue
		}
		if endpoint.limiter.Allow() {
			p.mutex.Unlock()
			return endpoint.client, endpoint.URL, nil
		}
	}

	// Everything is rate limited; wait on the endpoint we started at.
	endpoint := p.endpoints[startIndex]
	p.mutex.Unlock()

	reservation := endpoint.limiter.Reserve()
	if !reservation.OK() {
		return nil, "", fmt.Errorf("rate limiter failed to make reservation")
	}
	if delay := reservation.Delay(); delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			reservation.Cancel()
			return nil, "", ctx.Err()
		}
	}
	return endpoint.client, endpoint.URL, nil
}

// MarkUnhealthy takes an endpoint out of rotation.
func (p *Pool) MarkUnhealthy(url string) {
	p.setHealth(url, false)
}

// MarkHealthy returns an endpoint to rotation.
func (p *Pool) MarkHealthy(url string) {
	p.setHealth(url, true)
}

func (p *Pool) setHealth(url string, healthy bool) {
	for _, endpoint := range p.endpoints {
		if endpoint.URL != url {
			continue
		}
		endpoint.mutex.Lock()
		endpoint.healthy = healthy
		endpoint.mutex.Unlock()

		metrics.SetOracleEndpointHealth(url, healthy)
		if !healthy {
			p.logger.Warn().Str("endpoint", url).Msg("Marked oracle endpoint as unhealthy")
		}
		return
	}
}
