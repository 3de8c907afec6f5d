// Package label derives shipping/sorting labels from stored ledger
// records. Derive is pure and safe to call concurrently.
package label

import "returns-service/internal/models"

// Items above this recovery value are expedited through sortation.
const highPriorityValue = 1000

// Derive renders the label descriptor for a processed record.
func Derive(record models.ProcessedRecord) models.Label {
	priority := "NORMAL"
	if record.Decision.EstimatedValue > highPriorityValue {
		priority = "HIGH"
	}

	return models.Label{
		LabelID:     record.LabelID,
		Destination: record.Decision.Hub,
		BinLocation: record.Decision.BinLocation,
		Priority:    priority,
	}
}
