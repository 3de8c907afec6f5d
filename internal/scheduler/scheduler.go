// Package scheduler runs the midnight daily-summary job: it reads the
// previous day's per-worker counters from the ledger, logs them, and
// publishes a DailySummary event.
package scheduler

import (
	"context"
	"time"

	"returns-service/internal/ledger"
	"returns-service/internal/models"
	"returns-service/internal/util"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SummaryPublisher publishes the daily summary. Satisfied by
// broker.EventPublisher; nil disables publishing.
type SummaryPublisher interface {
	PublishDailySummary(ctx context.Context, event *models.DailySummaryEvent) error
}

// Scheduler owns the cron runner for periodic jobs.
type Scheduler struct {
	cron   *cron.Cron
	ledger ledger.Ledger
	events SummaryPublisher
	logger *zap.Logger
}

// New creates a scheduler with the daily summary job registered.
func New(l ledger.Ledger, events SummaryPublisher) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		ledger: l,
		events: events,
		logger: util.GetLogger(),
	}

	// Five minutes past midnight UTC, summarizing the previous day.
	if _, err := s.cron.AddFunc("5 0 * * *", s.runDailySummary); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	day := models.DayOf(time.Now().UTC().AddDate(0, 0, -1))

	counts, err := s.ledger.CountersForDay(ctx, day)
	if err != nil {
		s.logger.Error("Daily summary failed to read counters",
			zap.String("day", day),
			zap.Error(err))
		return
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	s.logger.Info("Daily throughput summary",
		zap.String("day", day),
		zap.Int("workers", len(counts)),
		zap.Int64("total_processed", total))

	if s.events == nil {
		return
	}

	event := &models.DailySummaryEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeDailySummary,
			Timestamp: time.Now(),
		},
		Day:            day,
		WorkerCounts:   counts,
		TotalProcessed: total,
	}
	if err := s.events.PublishDailySummary(ctx, event); err != nil {
		s.logger.Error("Failed to publish DailySummary event", zap.Error(err))
	}
}
