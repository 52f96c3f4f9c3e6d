package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Envelope is one submitted action waiting to be executed. Payload carries
// the kind-specific arguments as JSON.
type Envelope struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Caller      string          `json:"caller"`
	Payload     json.RawMessage `json:"payload"`
	SubmittedAt int64           `json:"submitted_at"`
}

// NewEnvelope builds an envelope with a fresh action ID.
func NewEnvelope(kind, caller string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return Envelope{
		ID:          uuid.NewString(),
		Kind:        kind,
		Caller:      caller,
		Payload:     raw,
		SubmittedAt: time.Now().Unix(),
	}, nil
}

// Client wraps Redis operations for the action queue
type Client struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewClient creates a new Redis queue client
func NewClient(redisURL string, logger zerolog.Logger) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info().Str("redis_url", redisURL).Msg("Connected to Redis successfully")

	return &Client{
		client: client,
		logger: logger.With().Str("component", "queue").Logger(),
	}, nil
}

// Push adds an action to the queue. The submission time is the score, so
// actions come back out in submission order.
func (c *Client) Push(ctx context.Context, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	err = c.client.ZAdd(ctx, "action_queue", redis.Z{
		Score:  float64(env.SubmittedAt),
		Member: string(raw),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to push action to queue: %w", err)
	}

	c.logger.Debug().
		Str("action_id", env.ID).
		Str("kind", env.Kind).
		Msg("Pushed action to queue")

	return nil
}

// Pop removes and returns the oldest queued action. A nil envelope means
// the queue is empty.
func (c *Client) Pop(ctx context.Context) (*Envelope, error) {
	result, err := c.client.ZPopMin(ctx, "action_queue", 1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop action from queue: %w", err)
	}

	if len(result) == 0 {
		return nil, nil
	}

	raw := result[0].Member.(string)
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	c.logger.Debug().Str("action_id", env.ID).Str("kind", env.Kind).Msg("Popped action from queue")
	return &env, nil
}

// SetInFlight marks an action as being executed by a worker
func (c *Client) SetInFlight(ctx context.Context, env Envelope, worker string) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	value := fmt.Sprintf("%s,%d,%s", worker, time.Now().Unix(), raw)
	if err := c.client.HSet(ctx, "action_inflight", env.ID, value).Err(); err != nil {
		return fmt.Errorf("failed to set action in-flight: %w", err)
	}

	c.logger.Debug().
		Str("action_id", env.ID).
		Str("worker", worker).
		Msg("Marked action as in-flight")

	return nil
}

// RemoveInFlight removes an action from the in-flight tracking
func (c *Client) RemoveInFlight(ctx context.Context, actionID string) error {
	if err := c.client.HDel(ctx, "action_inflight", actionID).Err(); err != nil {
		return fmt.Errorf("failed to remove action from in-flight: %w", err)
	}

	c.logger.Debug().Str("action_id", actionID).Msg("Removed action from in-flight")
	return nil
}

// GetQueueLength returns the number of actions in the queue
func (c *Client) GetQueueLength(ctx context.Context) (int64, error) {
	length, err := c.client.ZCard(ctx, "action_queue").Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

// GetInFlightActions returns all actions currently being executed
func (c *Client) GetInFlightActions(ctx context.Context) (map[string]string, error) {
	result, err := c.client.HGetAll(ctx, "action_inflight").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get in-flight actions: %w", err)
	}
	return result, nil
}

// RequeueStuckActions moves actions that have been in-flight too long back
// to the queue, preserving their original submission order.
func (c *Client) RequeueStuckActions(ctx context.Context, timeoutMinutes int) error {
	inFlight, err := c.GetInFlightActions(ctx)
	if err != nil {
		return fmt.Errorf("failed to get in-flight actions: %w", err)
	}

	cutoff := time.Now().Add(-time.Duration(timeoutMinutes) * time.Minute).Unix()
	requeuedCount := 0

	for actionID, value := range inFlight {
		parts := strings.SplitN(value, ",", 3)
		if len(parts) != 3 {
			c.logger.Warn().Str("action_id", actionID).Msg("Invalid in-flight value format")
			continue
		}

		startTime, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			c.logger.Warn().Str("action_id", actionID).Msg("Invalid timestamp in in-flight value")
			continue
		}

		if startTime >= cutoff {
			continue
		}

		var env Envelope
		if err := json.Unmarshal([]byte(parts[2]), &env); err != nil {
			c.logger.Warn().Err(err).Str("action_id", actionID).Msg("Invalid envelope in in-flight value")
			continue
		}

		// Action has been stuck too long, requeue it
		if err := c.Push(ctx, env); err != nil {
			c.logger.Error().Err(err).Str("action_id", actionID).Msg("Failed to requeue stuck action")
			continue
		}
		if err := c.RemoveInFlight(ctx, actionID); err != nil {
			c.logger.Error().Err(err).Str("action_id", actionID).Msg("Failed to remove requeued action from in-flight")
		}

		requeuedCount++
		c.logger.Info().
			Str("action_id", actionID).
			Str("worker", parts[0]).
			Int64("stuck_minutes", (time.Now().Unix()-startTime)/60).
			Msg("Requeued stuck action")
	}

	if requeuedCount > 0 {
		c.logger.Info().Int("count", requeuedCount).Msg("Requeued stuck actions")
	}

	return nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}
