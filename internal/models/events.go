package models

import "time"

// Event types
const (
	EventTypeReturnProcessed = "RETURN_PROCESSED"
	EventTypeReturnShipped   = "RETURN_SHIPPED"
	EventTypeDailySummary    = "DAILY_SUMMARY"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ReturnProcessedEvent published after a return is recorded in the ledger
type ReturnProcessedEvent struct {
	BaseEvent
	RecordID       string  `json:"record_id"`
	WorkerID       string  `json:"worker_id"`
	SKU            string  `json:"sku"`
	Action         Action  `json:"action"`
	Hub            string  `json:"hub"`
	EstimatedValue float64 `json:"estimated_value"`
	CO2Saved       float64 `json:"co2_saved"`
	LabelID        string  `json:"label_id"`
	DailyCount     int64   `json:"daily_count"`
}

// ReturnShippedEvent published when a record transitions to shipped
type ReturnShippedEvent struct {
	BaseEvent
	RecordID string `json:"record_id"`
	LabelID  string `json:"label_id"`
	WorkerID string `json:"worker_id"`
	Hub      string `json:"hub"`
}

// DailySummaryEvent published by the scheduler once per calendar day
type DailySummaryEvent struct {
	BaseEvent
	Day            string           `json:"day"`
	WorkerCounts   map[string]int64 `json:"worker_counts"`
	TotalProcessed int64            `json:"total_processed"`
}
