package worker

import (
	"context"
	"time"

	"returns-service/internal/broker"
	"returns-service/internal/models"
	"returns-service/internal/redisclient"
	"returns-service/internal/util"

	"go.uber.org/zap"
)

// EventDeduper tracks consumed event ids so replayed messages are
// skipped. Implemented by the Postgres store.
type EventDeduper interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// AnalyticsWorker consumes ReturnProcessed events and maintains per-hub
// throughput counters in Redis.
type AnalyticsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	deduper      EventDeduper
	redis        *redisclient.Client
	logger       *zap.Logger
}

// NewAnalyticsWorker creates a new analytics worker
func NewAnalyticsWorker(consumer *broker.Consumer, deduper EventDeduper, redis *redisclient.Client) *AnalyticsWorker {
	w := &AnalyticsWorker{
		consumer: consumer,
		deduper:  deduper,
		redis:    redis,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnReturnProcessed(w.handleReturnProcessed)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AnalyticsWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting analytics worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AnalyticsWorker) Stop() error {
	w.logger.Info("Stopping analytics worker...")
	return w.consumer.Close()
}

func (w *AnalyticsWorker) handleReturnProcessed(ctx context.Context, event *models.ReturnProcessedEvent) error {
	if w.deduper != nil {
		processed, err := w.deduper.IsEventProcessed(ctx, event.EventID)
		if err != nil {
			return err
		}
		if processed {
			w.logger.Debug("Skipping duplicate event", zap.String("event_id", event.EventID))
			return nil
		}
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	day := models.DayOf(ts)

	// The increment and the dedup mark are separate writes: a crash
	// between them replays the event and counts the hub twice. Hub
	// throughput is a best-effort gauge, so at-least-once is accepted
	// here; the ledger remains the source of exact counts.
	if err := w.redis.IncrHubThroughput(ctx, event.Hub, day); err != nil {
		return err
	}

	w.logger.Debug("Hub throughput updated",
		zap.String("hub", event.Hub),
		zap.String("day", day))

	if w.deduper != nil {
		return w.deduper.MarkEventProcessed(ctx, event.EventID, event.EventType)
	}
	return nil
}
