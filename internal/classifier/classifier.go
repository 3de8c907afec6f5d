// Package classifier computes the disposition decision for a returned
// item. Classify is a pure function: no state, no failure paths, same
// input always yields the same Decision.
package classifier

import (
	"fmt"
	"math"

	"returns-service/internal/models"
)

// Repair is only economical for high-value electronics.
const repairPriceThreshold = 5000

// CO2 savings per rupee of original price, by disposition.
const (
	co2PerRupeeResell  = 0.002
	co2PerRupeeRepair  = 0.0015
	co2PerRupeeRecycle = 0.001
	co2PerRupeeDonate  = 0.0018
)

// Classify maps item attributes to a disposition decision. Rules are
// evaluated in precedence order; the first match wins and anything that
// matches no rule is recycled.
func Classify(item models.Item) models.Decision {
	var d models.Decision

	switch {
	case item.Condition == models.ConditionNew:
		d = models.Decision{
			Action:         models.ActionResell,
			Platform:       "Flipkart",
			EstimatedValue: math.Round(item.OriginalPrice * 0.70),
			Confidence:     95,
			Hub:            "in-house warehouse",
			BinLocation:    "RESELL-A",
		}

	case item.Condition == models.ConditionLightlyUsed:
		d = models.Decision{
			Action:         models.ActionResell,
			Platform:       "Flipkart 2GUD",
			EstimatedValue: math.Round(item.OriginalPrice * 0.40),
			Confidence:     88,
			Hub:            "refurbishment center",
			BinLocation:    "RESELL-B",
		}

	case item.Condition == models.ConditionDamaged &&
		item.Category == models.CategoryElectronics &&
		item.OriginalPrice > repairPriceThreshold:
		d = models.Decision{
			Action:         models.ActionRepair,
			Platform:       models.PlatformNone,
			EstimatedValue: math.Round(item.OriginalPrice * 0.25),
			Confidence:     75,
			Hub:            "electronics repair hub",
			BinLocation:    "REPAIR",
		}

	case item.Condition == models.ConditionNotWorking && item.Category == models.CategoryElectronics:
		d = models.Decision{
			Action:      models.ActionRecycle,
			Platform:    models.PlatformNone,
			Confidence:  92,
			Hub:         "e-waste center",
			BinLocation: "E-WASTE",
		}

	case item.Condition == models.ConditionNotWorking:
		d = models.Decision{
			Action:      models.ActionDonate,
			Platform:    models.PlatformNone,
			Confidence:  90,
			Hub:         "donation center",
			BinLocation: "DONATE",
		}

	default:
		d = models.Decision{
			Action:      models.ActionRecycle,
			Platform:    models.PlatformNone,
			Confidence:  85,
			Hub:         "recycling center",
			BinLocation: "RECYCLE",
		}
	}

	d.CO2Saved = co2Saved(d.Action, item.OriginalPrice)
	d.ETA = turnaround(d.Action)
	d.Reasoning = reasoning(d.Action, item)

	return d
}

// co2Saved estimates CO2 savings in kg from the disposition and the
// item's original price, rounded to 2 decimals.
func co2Saved(action models.Action, originalPrice float64) float64 {
	factor := co2PerRupeeRecycle
	switch action {
	case models.ActionResell:
		factor = co2PerRupeeResell
	case models.ActionRepair:
		factor = co2PerRupeeRepair
	case models.ActionRecycle:
		factor = co2PerRupeeRecycle
	case models.ActionDonate:
		factor = co2PerRupeeDonate
	}
	return math.Round(originalPrice*factor*100) / 100
}

// turnaround maps the disposition to a coarse completion window.
func turnaround(action models.Action) string {
	switch action {
	case models.ActionResell:
		return "1-2 days"
	case models.ActionRepair:
		return "3-5 days"
	case models.ActionRecycle:
		return "1 day"
	case models.ActionDonate:
		return "2-3 days"
	}
	return "3-5 days"
}

// reasoning renders the human-readable justification for the decision.
// The generic fallback exists only because Action is an open string
// type; every action produced by Classify hits a dedicated arm.
func reasoning(action models.Action, item models.Item) string {
	switch action {
	case models.ActionResell:
		return fmt.Sprintf("Item in %s condition is suitable for the resale market; %s has good demand.",
			item.Condition, item.Category)
	case models.ActionRepair:
		return fmt.Sprintf("Item in %s condition is economically viable for repair and resale as %s.",
			item.Condition, item.Category)
	case models.ActionRecycle:
		return fmt.Sprintf("Item in %s condition is beyond economical reuse; %s materials can be responsibly recycled.",
			item.Condition, item.Category)
	case models.ActionDonate:
		return fmt.Sprintf("Item in %s condition still has social value; routing %s to donation programs.",
			item.Condition, item.Category)
	}
	return "Standard processing applies."
}
