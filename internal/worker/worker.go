package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/logger"
	"github.com/wnt/elwcore/internal/metrics"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/queue"
	"github.com/wnt/elwcore/internal/service"
)

// Worker executes queued actions against the service. A single worker
// drains the queue, so actions apply in submission order.
type Worker struct {
	id      string
	db      *gorm.DB
	queue   *queue.Client
	service *service.Service
	logger  zerolog.Logger
	stopped bool
}

// NewWorker creates a new worker instance
func NewWorker(id string, db *gorm.DB, queueClient *queue.Client, svc *service.Service, baseLogger zerolog.Logger) *Worker {
	return &Worker{
		id:      id,
		db:      db,
		queue:   queueClient,
		service: svc,
		logger:  logger.WithWorker(baseLogger, id),
	}
}

// Start begins the worker processing loop
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().Msg("Starting worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Worker received shutdown signal")
			return ctx.Err()
		default:
			if w.stopped {
				w.logger.Info().Msg("Worker stopped")
				return nil
			}

			if err := w.processAction(ctx); err != nil {
				w.logger.Error().Err(err).Msg("Failed to process action")

				// Brief pause to avoid tight error loops
				select {
				case <-time.After(5 * time.Second):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// Stop signals the worker to stop gracefully
func (w *Worker) Stop() {
	w.stopped = true
	w.logger.Info().Msg("Worker stop signal received")
}

// processAction handles the complete lifecycle of a single queued action
func (w *Worker) processAction(ctx context.Context) error {
	env, err := w.queue.Pop(ctx)
	if err != nil {
		return fmt.Errorf("failed to pop action from queue: %w", err)
	}

	// No action available
	if env == nil {
		// Brief pause when queue is empty to avoid spinning
		select {
		case <-time.After(1 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}

	if err := w.queue.SetInFlight(ctx, *env, w.id); err != nil {
		w.logger.Error().Err(err).Str("action_id", env.ID).Msg("Failed to mark action as in-flight")
		// Re-queue the action since we couldn't track it
		if requeueErr := w.queue.Push(ctx, *env); requeueErr != nil {
			w.logger.Error().Err(requeueErr).Str("action_id", env.ID).Msg("Failed to requeue action after in-flight error")
		}
		return err
	}

	actionLogger := logger.WithAction(w.logger, env.ID, env.Kind)
	startTime := time.Now()

	actionLogger.Info().Str("caller", env.Caller).Msg("Executing action")

	execErr := w.dispatch(ctx, env)
	duration := time.Since(startTime)

	metrics.RecordActionDuration(env.Kind, duration.Seconds())

	if removeErr := w.queue.RemoveInFlight(ctx, env.ID); removeErr != nil {
		actionLogger.Error().Err(removeErr).Msg("Failed to remove action from in-flight tracking")
	}

	if err := w.recordOutcome(env, execErr); err != nil {
		actionLogger.Error().Err(err).Msg("Failed to record action outcome")
	}

	if execErr != nil {
		metrics.RecordAction(env.Kind, models.ActionRejected)
		actionLogger.Warn().Err(execErr).Dur("duration", duration).Msg("Action rejected")
		if !elw.IsRejection(execErr) {
			return fmt.Errorf("action execution failed: %w", execErr)
		}
		return nil
	}

	metrics.RecordAction(env.Kind, models.ActionSucceeded)
	actionLogger.Info().Dur("duration", duration).Msg("Action executed successfully")
	return nil
}

// recordOutcome writes the audit trail row for an executed action.
func (w *Worker) recordOutcome(env *queue.Envelope, execErr error) error {
	record := models.ActionRecord{
		ActionID:    env.ID,
		Kind:        env.Kind,
		Caller:      env.Caller,
		Status:      models.ActionSucceeded,
		Payload:     string(env.Payload),
		ProcessedAt: time.Now().UTC(),
	}
	if execErr != nil {
		record.Status = models.ActionRejected
		record.Reason = execErr.Error()
	}

	if err := w.db.Create(&record).Error; err != nil {
		metrics.RecordDatabaseOperation("insert", "failed")
		return fmt.Errorf("failed to insert action record: %w", err)
	}
	metrics.RecordDatabaseOperation("insert", "success")
	return nil
}
