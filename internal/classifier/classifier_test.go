package classifier

import (
	"strings"
	"testing"

	"returns-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyNewElectronics(t *testing.T) {
	item := models.Item{
		SKU:           "ELEC-001",
		Condition:     models.ConditionNew,
		Category:      models.CategoryElectronics,
		OriginalPrice: 2500,
	}

	d := Classify(item)

	assert.Equal(t, models.ActionResell, d.Action)
	assert.Equal(t, float64(1750), d.EstimatedValue)
	assert.Equal(t, 95, d.Confidence)
	assert.Equal(t, "Flipkart", d.Platform)
	assert.Equal(t, "in-house warehouse", d.Hub)
	assert.Equal(t, "RESELL-A", d.BinLocation)
}

func TestClassifyLightlyUsed(t *testing.T) {
	item := models.Item{
		SKU:           "FASH-002",
		Condition:     models.ConditionLightlyUsed,
		Category:      models.CategoryFashion,
		OriginalPrice: 1000,
	}

	d := Classify(item)

	assert.Equal(t, models.ActionResell, d.Action)
	assert.Equal(t, float64(400), d.EstimatedValue)
	assert.Equal(t, 88, d.Confidence)
	assert.Equal(t, "refurbishment center", d.Hub)
	assert.Equal(t, "RESELL-B", d.BinLocation)
}

func TestClassifyNotWorkingElectronics(t *testing.T) {
	item := models.Item{
		SKU:           "ELEC-003",
		Condition:     models.ConditionNotWorking,
		Category:      models.CategoryElectronics,
		OriginalPrice: 1499,
	}

	d := Classify(item)

	assert.Equal(t, models.ActionRecycle, d.Action)
	assert.Equal(t, "e-waste center", d.Hub)
	assert.Equal(t, "E-WASTE", d.BinLocation)
	assert.Equal(t, models.PlatformNone, d.Platform)
}

func TestClassifyNotWorkingNonElectronics(t *testing.T) {
	item := models.Item{
		SKU:           "FASH-004",
		Condition:     models.ConditionNotWorking,
		Category:      models.CategoryFashion,
		OriginalPrice: 800,
	}

	d := Classify(item)

	assert.Equal(t, models.ActionDonate, d.Action)
	assert.Equal(t, "donation center", d.Hub)
}

func TestClassifyDamagedHighValueElectronics(t *testing.T) {
	item := models.Item{
		SKU:           "ELEC-005",
		Condition:     models.ConditionDamaged,
		Category:      models.CategoryElectronics,
		OriginalPrice: 8999,
	}

	d := Classify(item)

	assert.Equal(t, models.ActionRepair, d.Action)
	assert.Equal(t, float64(2250), d.EstimatedValue)
	assert.Equal(t, 75, d.Confidence)
	assert.Equal(t, "electronics repair hub", d.Hub)
}

func TestClassifyDamagedFallsThroughToRecycle(t *testing.T) {
	// Damaged non-electronics has no dedicated rule and lands on the
	// default, as does damaged electronics at or below the price gate.
	fashion := models.Item{
		SKU:           "FASH-006",
		Condition:     models.ConditionDamaged,
		Category:      models.CategoryFashion,
		OriginalPrice: 8999,
	}
	d := Classify(fashion)
	assert.Equal(t, models.ActionRecycle, d.Action)
	assert.Equal(t, "recycling center", d.Hub)
	assert.Equal(t, float64(0), d.EstimatedValue)
	assert.Equal(t, 85, d.Confidence)

	cheapElectronics := models.Item{
		SKU:           "ELEC-007",
		Condition:     models.ConditionDamaged,
		Category:      models.CategoryElectronics,
		OriginalPrice: 5000,
	}
	assert.Equal(t, models.ActionRecycle, Classify(cheapElectronics).Action)
}

func TestClassifyDeterministic(t *testing.T) {
	item := models.Item{
		SKU:           "HOME-008",
		ProductName:   "Blender",
		Condition:     models.ConditionDefective,
		ReturnReason:  "stopped working after a week",
		Category:      models.CategoryHomeKitchen,
		OriginalPrice: 3499.50,
	}

	first := Classify(item)
	second := Classify(item)

	assert.Equal(t, first, second)
}

func TestClassifyBounds(t *testing.T) {
	conditions := []models.Condition{
		models.ConditionNew, models.ConditionLightlyUsed, models.ConditionGood,
		models.ConditionFair, models.ConditionPoor, models.ConditionDefective,
		models.ConditionNotWorking, models.ConditionDamaged,
	}
	categories := []models.Category{
		models.CategoryElectronics, models.CategoryFashion,
		models.CategoryHomeKitchen, models.CategoryAppliances,
	}
	prices := []float64{0, 1, 999.99, 5000, 5001, 250000}

	for _, cond := range conditions {
		for _, cat := range categories {
			for _, price := range prices {
				d := Classify(models.Item{
					SKU:           "X",
					Condition:     cond,
					Category:      cat,
					OriginalPrice: price,
				})

				assert.GreaterOrEqual(t, d.EstimatedValue, float64(0))
				assert.GreaterOrEqual(t, d.CO2Saved, float64(0))
				assert.GreaterOrEqual(t, d.Confidence, 0)
				assert.LessOrEqual(t, d.Confidence, 100)
				assert.NotEmpty(t, d.Hub)
				assert.NotEmpty(t, d.BinLocation)
				assert.NotEmpty(t, d.ETA)
			}
		}
	}
}

func TestReasoningFallbackUnreachable(t *testing.T) {
	// Every decision the table can produce must carry a dedicated
	// reasoning template, never the generic fallback.
	conditions := []models.Condition{
		models.ConditionNew, models.ConditionLightlyUsed, models.ConditionGood,
		models.ConditionFair, models.ConditionPoor, models.ConditionDefective,
		models.ConditionNotWorking, models.ConditionDamaged,
	}
	categories := []models.Category{
		models.CategoryElectronics, models.CategoryFashion,
		models.CategoryHomeKitchen, models.CategoryAppliances,
		models.CategoryToys, models.CategoryBooks, models.CategoryOther,
	}

	for _, cond := range conditions {
		for _, cat := range categories {
			for _, price := range []float64{0, 4999, 5001, 20000} {
				d := Classify(models.Item{
					SKU:           "X",
					Condition:     cond,
					Category:      cat,
					OriginalPrice: price,
				})
				assert.False(t, strings.Contains(d.Reasoning, "Standard processing"),
					"fallback reasoning reached for condition=%s category=%s", cond, cat)
				assert.Contains(t, d.Reasoning, string(cond))
			}
		}
	}
}

func TestCO2Rounding(t *testing.T) {
	item := models.Item{
		SKU:           "ELEC-009",
		Condition:     models.ConditionNew,
		Category:      models.CategoryElectronics,
		OriginalPrice: 1234.56,
	}

	d := Classify(item)

	// 1234.56 * 0.002 = 2.46912 -> 2.47
	assert.Equal(t, 2.47, d.CO2Saved)
}
