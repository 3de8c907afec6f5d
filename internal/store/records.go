package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"returns-service/internal/ledger"
	"returns-service/internal/models"

	"github.com/google/uuid"
)

// recordRow is the flat row shape of the processed_records table.
type recordRow struct {
	ID             string    `db:"id"`
	SKU            string    `db:"sku"`
	ProductName    string    `db:"product_name"`
	Condition      string    `db:"condition"`
	ReturnReason   string    `db:"return_reason"`
	Category       string    `db:"category"`
	OriginalPrice  float64   `db:"original_price"`
	Action         string    `db:"action"`
	Platform       string    `db:"platform"`
	EstimatedValue float64   `db:"estimated_value"`
	CO2Saved       float64   `db:"co2_saved"`
	Hub            string    `db:"hub"`
	BinLocation    string    `db:"bin_location"`
	Confidence     int       `db:"confidence"`
	ETA            string    `db:"eta"`
	Reasoning      string    `db:"reasoning"`
	WorkerID       string    `db:"worker_id"`
	ProcessedAt    time.Time `db:"processed_at"`
	LabelID        string    `db:"label_id"`
	Status         string    `db:"status"`
}

func (r recordRow) toModel() models.ProcessedRecord {
	return models.ProcessedRecord{
		ID: r.ID,
		Item: models.Item{
			SKU:           r.SKU,
			ProductName:   r.ProductName,
			Condition:     models.Condition(r.Condition),
			ReturnReason:  r.ReturnReason,
			Category:      models.Category(r.Category),
			OriginalPrice: r.OriginalPrice,
		},
		Decision: models.Decision{
			Action:         models.Action(r.Action),
			Platform:       r.Platform,
			EstimatedValue: r.EstimatedValue,
			CO2Saved:       r.CO2Saved,
			Hub:            r.Hub,
			BinLocation:    r.BinLocation,
			Confidence:     r.Confidence,
			ETA:            r.ETA,
			Reasoning:      r.Reasoning,
		},
		WorkerID:    r.WorkerID,
		ProcessedAt: r.ProcessedAt,
		LabelID:     r.LabelID,
		Status:      r.Status,
	}
}

const selectRecordColumns = `
	SELECT id, sku, product_name, condition, return_reason, category,
	       original_price, action, platform, estimated_value, co2_saved,
	       hub, bin_location, confidence, eta, reasoning, worker_id,
	       processed_at, label_id, status
	FROM processed_records`

// Record appends a processed record and increments the worker's daily
// counter in a single transaction.
func (s *Store) Record(ctx context.Context, item models.Item, decision models.Decision, workerID string) (*models.ProcessedRecord, int64, error) {
	if workerID == "" {
		workerID = models.WorkerUnassigned
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	recordID := uuid.New().String()
	labelID := "LBL-" + uuid.New().String()

	var processedAt time.Time
	err = tx.GetContext(ctx, &processedAt, `
		INSERT INTO processed_records (
			id, sku, product_name, condition, return_reason, category,
			original_price, action, platform, estimated_value, co2_saved,
			hub, bin_location, confidence, eta, reasoning, worker_id,
			label_id, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING processed_at`,
		recordID, item.SKU, item.ProductName, string(item.Condition),
		item.ReturnReason, string(item.Category), item.OriginalPrice,
		string(decision.Action), decision.Platform, decision.EstimatedValue,
		decision.CO2Saved, decision.Hub, decision.BinLocation,
		decision.Confidence, decision.ETA, decision.Reasoning,
		workerID, labelID, models.RecordStatusProcessed)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to append record: %w", err)
	}

	var count int64
	err = tx.GetContext(ctx, &count, `
		INSERT INTO daily_counters (worker_id, day, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (worker_id, day)
		DO UPDATE SET count = daily_counters.count + 1
		RETURNING count`,
		workerID, models.DayOf(processedAt))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to increment daily counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit record: %w", err)
	}

	record := &models.ProcessedRecord{
		ID:          recordID,
		Item:        item,
		Decision:    decision,
		WorkerID:    workerID,
		ProcessedAt: processedAt,
		LabelID:     labelID,
		Status:      models.RecordStatusProcessed,
	}
	return record, count, nil
}

// RecentByWorker returns up to limit records for a worker, most recent
// first.
func (s *Store) RecentByWorker(ctx context.Context, workerID string, limit int) ([]models.ProcessedRecord, error) {
	if workerID == "" {
		workerID = models.WorkerUnassigned
	}
	if limit <= 0 {
		return []models.ProcessedRecord{}, nil
	}

	var rows []recordRow
	err := s.db.SelectContext(ctx, &rows,
		selectRecordColumns+` WHERE worker_id = $1 ORDER BY processed_at DESC, id DESC LIMIT $2`,
		workerID, limit)
	if err != nil {
		return nil, err
	}

	records := make([]models.ProcessedRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toModel())
	}
	return records, nil
}

// CounterFor returns the daily counter for (workerID, day), 0 if absent.
func (s *Store) CounterFor(ctx context.Context, workerID, day string) (int64, error) {
	if workerID == "" {
		workerID = models.WorkerUnassigned
	}

	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT count FROM daily_counters WHERE worker_id = $1 AND day = $2",
		workerID, day)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountersForDay returns all worker counters for one calendar day.
func (s *Store) CountersForDay(ctx context.Context, day string) (map[string]int64, error) {
	var counters []struct {
		WorkerID string `db:"worker_id"`
		Count    int64  `db:"count"`
	}
	err := s.db.SelectContext(ctx, &counters,
		"SELECT worker_id, count FROM daily_counters WHERE day = $1", day)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(counters))
	for _, c := range counters {
		out[c.WorkerID] = c.Count
	}
	return out, nil
}

// TotalCount returns the number of records ever appended.
func (s *Store) TotalCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM processed_records")
	return count, err
}

// UpdateStatus transitions a record to the given status. Only
// processed -> shipped is allowed.
func (s *Store) UpdateStatus(ctx context.Context, recordID, status string) (*models.ProcessedRecord, error) {
	if status != models.RecordStatusShipped {
		return nil, ledger.ErrInvalidTransition
	}

	var row recordRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE processed_records SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING id, sku, product_name, condition, return_reason, category,
		          original_price, action, platform, estimated_value, co2_saved,
		          hub, bin_location, confidence, eta, reasoning, worker_id,
		          processed_at, label_id, status`,
		status, recordID, models.RecordStatusProcessed)
	if err == sql.ErrNoRows {
		var exists bool
		if checkErr := s.db.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM processed_records WHERE id = $1)", recordID); checkErr != nil {
			return nil, checkErr
		}
		if exists {
			return nil, ledger.ErrInvalidTransition
		}
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	record := row.toModel()
	return &record, nil
}

// ImpactTotals aggregates recovery impact across all records.
func (s *Store) ImpactTotals(ctx context.Context) (*models.ImpactTotals, error) {
	var totals models.ImpactTotals
	err := s.db.GetContext(ctx, &totals, `
		SELECT COUNT(*) AS total_processed,
		       COALESCE(SUM(estimated_value), 0) AS value_recovered,
		       COALESCE(SUM(co2_saved), 0) AS co2_saved_kg
		FROM processed_records`)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
