package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/metrics"
	"github.com/wnt/elwcore/internal/queue"
	"github.com/wnt/elwcore/internal/service"
)

// Manager runs the action dispatcher and its housekeeping loops. Exactly
// one worker drains the queue: actions mutate shared vault state and must
// apply in submission order.
type Manager struct {
	queue   *queue.Client
	worker  *Worker
	logger  zerolog.Logger
	mutex   sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	eg      *errgroup.Group
	stopped bool
}

// NewManager creates a new worker manager
func NewManager(db *gorm.DB, queueClient *queue.Client, svc *service.Service, logger zerolog.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	eg, egCtx := errgroup.WithContext(ctx)

	return &Manager{
		queue:  queueClient,
		worker: NewWorker("dispatcher-1", db, queueClient, svc, logger),
		logger: logger.With().Str("component", "worker_manager").Logger(),
		ctx:    egCtx,
		cancel: cancel,
		eg:     eg,
	}
}

// Start begins the worker manager lifecycle
func (m *Manager) Start() error {
	m.logger.Info().Msg("Starting worker manager")

	m.eg.Go(func() error {
		return m.worker.Start(m.ctx)
	})
	metrics.WorkersActive.Set(1)

	// Start stuck action recovery
	m.eg.Go(func() error {
		return m.runStuckActionRecovery()
	})

	// Start queue monitoring
	m.eg.Go(func() error {
		return m.runQueueMonitoring()
	})

	m.logger.Info().Msg("Worker manager started successfully")
	return nil
}

// Stop gracefully shuts down the worker manager
func (m *Manager) Stop() error {
	m.mutex.Lock()
	if m.stopped {
		m.mutex.Unlock()
		return nil
	}
	m.stopped = true
	m.mutex.Unlock()

	m.logger.Info().Msg("Stopping worker manager...")

	// Cancel context to signal the worker to stop
	m.cancel()

	// Wait for everything to finish with timeout
	done := make(chan error, 1)
	go func() {
		done <- m.eg.Wait()
	}()

	select {
	case err := <-done:
		if err != nil && err != context.Canceled {
			m.logger.Error().Err(err).Msg("Error during worker shutdown")
		}
	case <-time.After(30 * time.Second):
		m.logger.Warn().Msg("Worker shutdown timed out")
	}

	metrics.WorkersActive.Set(0)
	m.logger.Info().Msg("Worker manager stopped")
	return nil
}

// runStuckActionRecovery periodically requeues actions whose worker died
// mid-execution.
func (m *Manager) runStuckActionRecovery() error {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return m.ctx.Err()
		case <-ticker.C:
			if err := m.queue.RequeueStuckActions(m.ctx, 15); err != nil {
				m.logger.Error().Err(err).Msg("Failed to requeue stuck actions")
			}
		}
	}
}

// runQueueMonitoring periodically logs queue statistics
func (m *Manager) runQueueMonitoring() error {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return m.ctx.Err()
		case <-ticker.C:
			queueLength, err := m.queue.GetQueueLength(m.ctx)
			if err != nil {
				m.logger.Error().Err(err).Msg("Failed to get queue length for monitoring")
				continue
			}
			metrics.ActionQueueLength.Set(float64(queueLength))

			inFlight, err := m.queue.GetInFlightActions(m.ctx)
			if err != nil {
				m.logger.Error().Err(err).Msg("Failed to get in-flight actions for monitoring")
				continue
			}

			m.logger.Info().
				Int64("queue_length", queueLength).
				Int("in_flight_actions", len(inFlight)).
				Msg("Queue monitoring stats")
		}
	}
}
