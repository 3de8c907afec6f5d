package label

import (
	"testing"

	"returns-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeriveHighPriority(t *testing.T) {
	record := models.ProcessedRecord{
		LabelID: "LBL-abc",
		Decision: models.Decision{
			Hub:            "in-house warehouse",
			BinLocation:    "RESELL-A",
			EstimatedValue: 1750,
		},
	}

	l := Derive(record)

	assert.Equal(t, "LBL-abc", l.LabelID)
	assert.Equal(t, "in-house warehouse", l.Destination)
	assert.Equal(t, "RESELL-A", l.BinLocation)
	assert.Equal(t, "HIGH", l.Priority)
}

func TestDeriveNormalPriority(t *testing.T) {
	record := models.ProcessedRecord{
		LabelID: "LBL-def",
		Decision: models.Decision{
			Hub:            "recycling center",
			BinLocation:    "RECYCLE",
			EstimatedValue: 500,
		},
	}

	assert.Equal(t, "NORMAL", Derive(record).Priority)
}

func TestDeriveBoundary(t *testing.T) {
	record := models.ProcessedRecord{
		Decision: models.Decision{EstimatedValue: 1000},
	}

	// Exactly 1000 is not expedited.
	assert.Equal(t, "NORMAL", Derive(record).Priority)
}

func TestDeriveIdempotent(t *testing.T) {
	record := models.ProcessedRecord{
		LabelID: "LBL-xyz",
		Decision: models.Decision{
			Hub:            "e-waste center",
			BinLocation:    "E-WASTE",
			EstimatedValue: 0,
		},
	}

	assert.Equal(t, Derive(record), Derive(record))
}
