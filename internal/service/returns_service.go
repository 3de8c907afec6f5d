package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"returns-service/internal/classifier"
	"returns-service/internal/label"
	"returns-service/internal/ledger"
	"returns-service/internal/models"
	"returns-service/internal/redisclient"
	"returns-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher publishes domain events after ledger writes. Satisfied
// by broker.EventPublisher; nil disables publishing.
type EventPublisher interface {
	PublishReturnProcessed(ctx context.Context, event *models.ReturnProcessedEvent) error
	PublishReturnShipped(ctx context.Context, event *models.ReturnShippedEvent) error
}

// ReturnsService runs the classify -> record -> label pipeline and
// answers worker activity queries.
type ReturnsService struct {
	ledger        ledger.Ledger
	redis         *redisclient.Client
	events        EventPublisher
	logger        *zap.Logger
	recordTimeout time.Duration
	recentLimit   int
}

// NewReturnsService creates a new returns service. redis and events may
// be nil; both are best-effort side channels and the ledger stays
// authoritative.
func NewReturnsService(
	l ledger.Ledger,
	redis *redisclient.Client,
	events EventPublisher,
	recordTimeout time.Duration,
	recentLimit int,
) *ReturnsService {
	return &ReturnsService{
		ledger:        l,
		redis:         redis,
		events:        events,
		logger:        util.GetLogger(),
		recordTimeout: recordTimeout,
		recentLimit:   recentLimit,
	}
}

// ProcessReturnResult bundles the three pipeline outputs of one return.
type ProcessReturnResult struct {
	Record     *models.ProcessedRecord `json:"record"`
	DailyCount int64                   `json:"daily_count"`
	Label      models.Label            `json:"label"`
}

// WorkerActivity is the per-worker throughput view.
type WorkerActivity struct {
	WorkerID       string                   `json:"worker_id"`
	Day            string                   `json:"day"`
	DailyCount     int64                    `json:"daily_count"`
	RecentItems    []models.ProcessedRecord `json:"recent_items"`
	TotalProcessed int64                    `json:"total_processed"`
}

// ProcessReturn classifies the item, records the decision in the ledger
// and derives the shipping label.
func (s *ReturnsService) ProcessReturn(ctx context.Context, item models.Item, workerID string) (*ProcessReturnResult, error) {
	ctx, span := util.StartSpan(ctx, "ReturnsService.ProcessReturn")
	defer span.End()

	decision := classifier.Classify(item)

	recordCtx, cancel := context.WithTimeout(ctx, s.recordTimeout)
	defer cancel()

	start := time.Now()
	record, dailyCount, err := s.ledger.Record(recordCtx, item, decision, workerID)
	util.RecordLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		reason := "storage_fault"
		if errors.Is(err, ledger.ErrBusy) {
			reason = "busy"
		}
		util.ReturnsFailedTotal.WithLabelValues(reason).Inc()
		return nil, fmt.Errorf("failed to record return: %w", err)
	}

	shippingLabel := label.Derive(*record)

	util.ReturnsProcessedTotal.WithLabelValues(string(decision.Action)).Inc()
	util.LabelsMintedTotal.Inc()
	util.EstimatedValueRecovered.Add(decision.EstimatedValue)
	util.CO2SavedKgTotal.Add(decision.CO2Saved)

	s.logger.Info("Return processed",
		zap.String("record_id", record.ID),
		zap.String("sku", item.SKU),
		zap.String("action", string(decision.Action)),
		zap.String("hub", decision.Hub),
		zap.String("worker_id", record.WorkerID),
		zap.Int64("daily_count", dailyCount))

	s.cacheDailyCount(ctx, record, dailyCount)
	s.publishProcessed(ctx, record, dailyCount)

	return &ProcessReturnResult{
		Record:     record,
		DailyCount: dailyCount,
		Label:      shippingLabel,
	}, nil
}

// cacheDailyCount mirrors the counter into Redis, best effort. The
// value written is the one the ledger returned for this append, never a
// relative increment: if Redis loses the key mid-day, the next write
// restores the true count instead of restarting from one.
func (s *ReturnsService) cacheDailyCount(ctx context.Context, record *models.ProcessedRecord, dailyCount int64) {
	if s.redis == nil {
		return
	}
	day := models.DayOf(record.ProcessedAt)
	if err := s.redis.SetDailyCount(ctx, record.WorkerID, day, dailyCount); err != nil {
		s.logger.Warn("Failed to update daily count cache",
			zap.String("worker_id", record.WorkerID),
			zap.Error(err))
	}
}

func (s *ReturnsService) publishProcessed(ctx context.Context, record *models.ProcessedRecord, dailyCount int64) {
	if s.events == nil {
		return
	}

	event := &models.ReturnProcessedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeReturnProcessed,
			Timestamp: time.Now(),
		},
		RecordID:       record.ID,
		WorkerID:       record.WorkerID,
		SKU:            record.Item.SKU,
		Action:         record.Decision.Action,
		Hub:            record.Decision.Hub,
		EstimatedValue: record.Decision.EstimatedValue,
		CO2Saved:       record.Decision.CO2Saved,
		LabelID:        record.LabelID,
		DailyCount:     dailyCount,
	}

	if err := s.events.PublishReturnProcessed(ctx, event); err != nil {
		s.logger.Error("Failed to publish ReturnProcessed event", zap.Error(err))
	}
}

// GetWorkerActivity returns the daily counter, recent records and total
// throughput for a worker. Day defaults to today (UTC); limit is capped
// by the configured recent limit.
func (s *ReturnsService) GetWorkerActivity(ctx context.Context, workerID, day string, limit int) (*WorkerActivity, error) {
	ctx, span := util.StartSpan(ctx, "ReturnsService.GetWorkerActivity")
	defer span.End()

	if workerID == "" {
		workerID = models.WorkerUnassigned
	}
	if day == "" {
		day = models.DayOf(time.Now())
	}
	if limit <= 0 || limit > s.recentLimit {
		limit = s.recentLimit
	}

	dailyCount, err := s.dailyCount(ctx, workerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily counter: %w", err)
	}

	recent, err := s.ledger.RecentByWorker(ctx, workerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent records: %w", err)
	}

	total, err := s.ledger.TotalCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read total count: %w", err)
	}

	return &WorkerActivity{
		WorkerID:       workerID,
		Day:            day,
		DailyCount:     dailyCount,
		RecentItems:    recent,
		TotalProcessed: total,
	}, nil
}

// dailyCount serves the counter from the cache when possible, falling
// back to the ledger and priming the cache on a miss.
func (s *ReturnsService) dailyCount(ctx context.Context, workerID, day string) (int64, error) {
	if s.redis != nil {
		count, hit, err := s.redis.GetDailyCount(ctx, workerID, day)
		if err != nil {
			s.logger.Warn("Daily count cache read failed, falling back to ledger",
				zap.String("worker_id", workerID),
				zap.Error(err))
		} else if hit {
			return count, nil
		}
	}

	count, err := s.ledger.CounterFor(ctx, workerID, day)
	if err != nil {
		return 0, err
	}

	if s.redis != nil && count > 0 {
		if err := s.redis.SetDailyCount(ctx, workerID, day, count); err != nil {
			s.logger.Warn("Failed to prime daily count cache", zap.Error(err))
		}
	}
	return count, nil
}

// MarkShipped transitions a record to shipped and publishes the
// corresponding event.
func (s *ReturnsService) MarkShipped(ctx context.Context, recordID string) (*models.ProcessedRecord, error) {
	ctx, span := util.StartSpan(ctx, "ReturnsService.MarkShipped")
	defer span.End()

	record, err := s.ledger.UpdateStatus(ctx, recordID, models.RecordStatusShipped)
	if err != nil {
		return nil, err
	}

	util.ReturnsShippedTotal.Inc()
	s.logger.Info("Return marked shipped",
		zap.String("record_id", record.ID),
		zap.String("label_id", record.LabelID))

	if s.events != nil {
		event := &models.ReturnShippedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeReturnShipped,
				Timestamp: time.Now(),
			},
			RecordID: record.ID,
			LabelID:  record.LabelID,
			WorkerID: record.WorkerID,
			Hub:      record.Decision.Hub,
		}
		if err := s.events.PublishReturnShipped(ctx, event); err != nil {
			s.logger.Error("Failed to publish ReturnShipped event", zap.Error(err))
		}
	}

	return record, nil
}

// Stats aggregates recovery impact across all processed records.
func (s *ReturnsService) Stats(ctx context.Context) (*models.ImpactTotals, error) {
	return s.ledger.ImpactTotals(ctx)
}

// HubThroughput returns the per-hub throughput counters maintained by
// the analytics worker for one calendar day. Empty without Redis; the
// counters are best-effort and not part of the ledger's guarantees.
func (s *ReturnsService) HubThroughput(ctx context.Context, day string) (map[string]int64, error) {
	if s.redis == nil {
		return map[string]int64{}, nil
	}
	if day == "" {
		day = models.DayOf(time.Now())
	}
	return s.redis.GetHubThroughput(ctx, day)
}
