// Package ledger defines the append-only record store for processed
// returns together with per-worker daily throughput counters. The
// ledger is the only component in the pipeline with shared mutable
// state; every append and its counter increment are observed as a
// single atomic unit.
package ledger

import (
	"context"
	"errors"

	"returns-service/internal/models"
)

var (
	// ErrBusy is returned when the serialization point could not be
	// acquired within the caller's deadline. Retryable; no partial
	// state was written.
	ErrBusy = errors.New("ledger: busy, retry")

	// ErrNotFound is returned for status updates on unknown records.
	ErrNotFound = errors.New("ledger: record not found")

	// ErrInvalidTransition is returned for disallowed status changes.
	ErrInvalidTransition = errors.New("ledger: invalid status transition")
)

// Ledger records disposition decisions and answers throughput queries.
type Ledger interface {
	// Record appends a processed record and increments the daily
	// counter for (workerID, day) atomically, returning the stored
	// record and the updated counter value as one consistent view.
	Record(ctx context.Context, item models.Item, decision models.Decision, workerID string) (*models.ProcessedRecord, int64, error)

	// RecentByWorker returns up to limit records for the worker, most
	// recent first.
	RecentByWorker(ctx context.Context, workerID string, limit int) ([]models.ProcessedRecord, error)

	// CounterFor returns the daily counter for (workerID, day), 0 if
	// absent. Day is formatted as YYYY-MM-DD.
	CounterFor(ctx context.Context, workerID, day string) (int64, error)

	// CountersForDay returns all worker counters for one calendar day.
	CountersForDay(ctx context.Context, day string) (map[string]int64, error)

	// TotalCount returns the number of records ever appended.
	TotalCount(ctx context.Context) (int64, error)

	// UpdateStatus transitions a record's status and returns the
	// updated record.
	UpdateStatus(ctx context.Context, recordID, status string) (*models.ProcessedRecord, error)

	// ImpactTotals aggregates recovery impact across all records.
	ImpactTotals(ctx context.Context) (*models.ImpactTotals, error)
}
