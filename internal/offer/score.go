package offer

import (
	"math"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
)

// Scoring weights; yield dominates, cash flow and term length break ties.
const (
	yieldWeight    = 0.70
	cashFlowWeight = 0.20
	amortWeight    = 0.10

	// yieldDeviationAllowance is the band padding inside which a miss is still
	// scored as near-target.
	yieldDeviationAllowance = 2.0
)

// calculateOfferScore rates a candidate on a 0-100 scale as a weighted sum of
// its yield, cash flow, and amortization term components.
func calculateOfferScore(yield, cashFlow float64, years, maxAmortizationYears int, tier config.TierConfig) float64 {
	return yieldWeight*yieldScore(yield, tier.MinNetRentalYield, tier.MaxNetRentalYield) +
		cashFlowWeight*cashFlowScore(cashFlow) +
		amortWeight*amortizationScore(years, maxAmortizationYears)
}

// yieldScore is a piecewise curve centered inside the tier's yield band: near
// misses below the band decay linearly, far misses collapse toward zero,
// slight overshoots are rewarded, and large overshoots decay exponentially.
func yieldScore(yield, minYield, maxYield float64) float64 {
	target := (minYield + maxYield) / 2
	band := maxYield - minYield

	switch {
	case yield < minYield-yieldDeviationAllowance:
		return math.Max(0, 50*(1-(minYield-yield-yieldDeviationAllowance)/5))
	case yield < minYield:
		return 85 - ((minYield-yield)/yieldDeviationAllowance)*15
	case yield > maxYield+yieldDeviationAllowance:
		return math.Min(100, 80+20*math.Exp(-(yield-maxYield-yieldDeviationAllowance)/5))
	case yield > maxYield:
		return 95 + ((yield-maxYield)/yieldDeviationAllowance)*5
	default:
		if band <= 0 {
			return 100
		}
		return 100 - (math.Abs(yield-target)/band)*15
	}
}

// cashFlowScore steps through buffer tiers: anything under $100 scores zero.
func cashFlowScore(cashFlow float64) float64 {
	switch {
	case cashFlow < 100:
		return 0
	case cashFlow < 200:
		return 30 + (cashFlow-100)*0.3
	case cashFlow < 500:
		return 60 + (cashFlow-200)*0.1
	default:
		return math.Min(100, 90+(cashFlow-500)*0.02)
	}
}

// amortizationScore favors shorter terms linearly against the ceiling.
func amortizationScore(years, maxAmortizationYears int) float64 {
	if maxAmortizationYears <= 0 {
		return 0
	}
	return math.Max(0, 100-(float64(years)/float64(maxAmortizationYears))*100)
}
