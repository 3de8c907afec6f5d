package models

import (
	"fmt"
	"time"
)

// Condition describes the physical state of a returned item.
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionLightlyUsed Condition = "lightly-used"
	ConditionGood        Condition = "good"
	ConditionFair        Condition = "fair"
	ConditionPoor        Condition = "poor"
	ConditionDefective   Condition = "defective"
	ConditionNotWorking  Condition = "not-working"
	ConditionDamaged     Condition = "damaged"
)

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLightlyUsed, ConditionGood, ConditionFair,
		ConditionPoor, ConditionDefective, ConditionNotWorking, ConditionDamaged:
		return true
	}
	return false
}

// Category is the product category of a returned item.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryFashion     Category = "Fashion"
	CategoryHomeKitchen Category = "Home & Kitchen"
	CategoryAppliances  Category = "Appliances"
	CategoryToys        Category = "Toys"
	CategoryBooks       Category = "Books"
	CategoryOther       Category = "Other"
)

// Valid reports whether cat is one of the known categories.
func (cat Category) Valid() bool {
	switch cat {
	case CategoryElectronics, CategoryFashion, CategoryHomeKitchen,
		CategoryAppliances, CategoryToys, CategoryBooks, CategoryOther:
		return true
	}
	return false
}

// Action is the disposition chosen for a returned item.
type Action string

const (
	ActionResell  Action = "Resell"
	ActionRepair  Action = "Repair"
	ActionRecycle Action = "Recycle"
	ActionDonate  Action = "Donate"
)

// Record statuses
const (
	RecordStatusPending   = "pending"
	RecordStatusProcessed = "processed"
	RecordStatusShipped   = "shipped"
)

// WorkerUnassigned is recorded when the caller supplies no worker identity.
const WorkerUnassigned = "unassigned"

// PlatformNone marks decisions with no marketplace routing.
const PlatformNone = "N/A"

// Item is the returned product snapshot at processing time.
// Immutable once constructed; copied into the ProcessedRecord.
type Item struct {
	SKU           string    `db:"sku" json:"sku" binding:"required"`
	ProductName   string    `db:"product_name" json:"product_name"`
	Condition     Condition `db:"condition" json:"condition" binding:"required"`
	ReturnReason  string    `db:"return_reason" json:"return_reason"`
	Category      Category  `db:"category" json:"category" binding:"required"`
	OriginalPrice float64   `db:"original_price" json:"original_price"`
}

// Validate checks boundary constraints on an incoming item.
func (it Item) Validate() error {
	if it.SKU == "" {
		return fmt.Errorf("sku must not be empty")
	}
	if !it.Condition.Valid() {
		return fmt.Errorf("unknown condition: %q", it.Condition)
	}
	if !it.Category.Valid() {
		return fmt.Errorf("unknown category: %q", it.Category)
	}
	if it.OriginalPrice < 0 {
		return fmt.Errorf("original_price must be non-negative")
	}
	return nil
}

// Decision is the disposition computed for an item. Never mutated after
// creation.
type Decision struct {
	Action         Action  `db:"action" json:"action"`
	Platform       string  `db:"platform" json:"platform"`
	EstimatedValue float64 `db:"estimated_value" json:"estimated_value"`
	CO2Saved       float64 `db:"co2_saved" json:"co2_saved"`
	Hub            string  `db:"hub" json:"hub"`
	BinLocation    string  `db:"bin_location" json:"bin_location"`
	Confidence     int     `db:"confidence" json:"confidence"`
	ETA            string  `db:"eta" json:"eta"`
	Reasoning      string  `db:"reasoning" json:"reasoning"`
}

// ProcessedRecord is the durable ledger entry for one processed return.
// Append-only: created once on a successful record operation, never
// deleted; only status transitions mutate it.
type ProcessedRecord struct {
	ID          string    `db:"id" json:"id"`
	Item        Item      `json:"item"`
	Decision    Decision  `json:"decision"`
	WorkerID    string    `db:"worker_id" json:"worker_id"`
	ProcessedAt time.Time `db:"processed_at" json:"processed_at"`
	LabelID     string    `db:"label_id" json:"label_id"`
	Status      string    `db:"status" json:"status"`
}

// DailyCounter aggregates records processed by one worker on one
// calendar day. The count always equals the number of ProcessedRecords
// for that worker with that processedAt date.
type DailyCounter struct {
	WorkerID string `db:"worker_id" json:"worker_id"`
	Day      string `db:"day" json:"day"` // YYYY-MM-DD
	Count    int64  `db:"count" json:"count"`
}

// Label is the shipping/sorting descriptor derived from a stored record.
type Label struct {
	LabelID     string `json:"label_id"`
	Destination string `json:"destination"`
	BinLocation string `json:"bin_location"`
	Priority    string `json:"priority"`
}

// ImpactTotals aggregates recovery impact across all processed records.
type ImpactTotals struct {
	TotalProcessed int64   `db:"total_processed" json:"total_processed"`
	ValueRecovered float64 `db:"value_recovered" json:"value_recovered"`
	CO2SavedKg     float64 `db:"co2_saved_kg" json:"co2_saved_kg"`
}

// DayOf formats a timestamp as the calendar-day key used by counters.
func DayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
