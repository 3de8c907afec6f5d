package ledger

import (
	"context"
	"math"
	"time"

	"returns-service/internal/models"

	"github.com/google/uuid"
)

type counterKey struct {
	workerID string
	day      string
}

// MemoryLedger is an in-process Ledger. All state is owned by the
// ledger and guarded by a single serialization point, so concurrent
// Record calls never lose counter updates. Used as the `memory` backend
// and as the reference implementation in tests.
type MemoryLedger struct {
	sem chan struct{}

	records  []models.ProcessedRecord
	byID     map[string]int
	counters map[counterKey]int64
	lastTS   time.Time

	valueRecovered float64
	co2SavedKg     float64
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		sem:      make(chan struct{}, 1),
		byID:     make(map[string]int),
		counters: make(map[counterKey]int64),
	}
}

// acquire takes the serialization point, honoring the caller's
// deadline. The critical section is bounded (no I/O), so waiters only
// back up behind other in-memory operations.
func (m *MemoryLedger) acquire(ctx context.Context) error {
	select {
	case m.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ErrBusy
	}
}

func (m *MemoryLedger) release() {
	<-m.sem
}

// Record implements Ledger.
func (m *MemoryLedger) Record(ctx context.Context, item models.Item, decision models.Decision, workerID string) (*models.ProcessedRecord, int64, error) {
	if workerID == "" {
		workerID = models.WorkerUnassigned
	}

	if err := m.acquire(ctx); err != nil {
		return nil, 0, err
	}
	defer m.release()

	now := time.Now().UTC()
	// Keep processedAt non-decreasing across appends even if the clock
	// steps backwards.
	if now.Before(m.lastTS) {
		now = m.lastTS
	}
	m.lastTS = now

	record := models.ProcessedRecord{
		ID:          uuid.New().String(),
		Item:        item,
		Decision:    decision,
		WorkerID:    workerID,
		ProcessedAt: now,
		LabelID:     "LBL-" + uuid.New().String(),
		Status:      models.RecordStatusProcessed,
	}

	m.records = append(m.records, record)
	m.byID[record.ID] = len(m.records) - 1

	key := counterKey{workerID: workerID, day: models.DayOf(now)}
	m.counters[key]++

	m.valueRecovered += decision.EstimatedValue
	m.co2SavedKg += decision.CO2Saved

	return &record, m.counters[key], nil
}

// RecentByWorker implements Ledger.
func (m *MemoryLedger) RecentByWorker(ctx context.Context, workerID string, limit int) ([]models.ProcessedRecord, error) {
	if workerID == "" {
		workerID = models.WorkerUnassigned
	}
	if limit <= 0 {
		return []models.ProcessedRecord{}, nil
	}

	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()

	out := make([]models.ProcessedRecord, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].WorkerID == workerID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

// CounterFor implements Ledger.
func (m *MemoryLedger) CounterFor(ctx context.Context, workerID, day string) (int64, error) {
	if workerID == "" {
		workerID = models.WorkerUnassigned
	}

	if err := m.acquire(ctx); err != nil {
		return 0, err
	}
	defer m.release()

	return m.counters[counterKey{workerID: workerID, day: day}], nil
}

// CountersForDay implements Ledger.
func (m *MemoryLedger) CountersForDay(ctx context.Context, day string) (map[string]int64, error) {
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()

	out := make(map[string]int64)
	for key, count := range m.counters {
		if key.day == day {
			out[key.workerID] = count
		}
	}
	return out, nil
}

// TotalCount implements Ledger.
func (m *MemoryLedger) TotalCount(ctx context.Context) (int64, error) {
	if err := m.acquire(ctx); err != nil {
		return 0, err
	}
	defer m.release()

	return int64(len(m.records)), nil
}

// UpdateStatus implements Ledger. Only processed -> shipped is allowed.
func (m *MemoryLedger) UpdateStatus(ctx context.Context, recordID, status string) (*models.ProcessedRecord, error) {
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()

	idx, ok := m.byID[recordID]
	if !ok {
		return nil, ErrNotFound
	}

	record := &m.records[idx]
	if status != models.RecordStatusShipped || record.Status != models.RecordStatusProcessed {
		return nil, ErrInvalidTransition
	}
	record.Status = status

	updated := *record
	return &updated, nil
}

// ImpactTotals implements Ledger.
func (m *MemoryLedger) ImpactTotals(ctx context.Context) (*models.ImpactTotals, error) {
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()

	return &models.ImpactTotals{
		TotalProcessed: int64(len(m.records)),
		ValueRecovered: math.Round(m.valueRecovered*100) / 100,
		CO2SavedKg:     math.Round(m.co2SavedKg*100) / 100,
	}, nil
}
