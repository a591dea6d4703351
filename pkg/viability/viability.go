// Package viability rates the health of a computed or edited deal.
package viability

import (
	"fmt"

	"github.com/daisuke-ai/maina-calculator-sub000/pkg/constants"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/format"
)

// Rating is the three-level health verdict for a deal.
type Rating string

const (
	Good      Rating = "good"
	Marginal  Rating = "marginal"
	NotViable Rating = "not_viable"
)

const (
	// FarBelowYieldMargin is how far under the tier minimum the yield may fall
	// before the deal is rejected outright rather than flagged.
	FarBelowYieldMargin = 5.0

	// ComfortableCashFlow is the monthly cash flow above which no warning fires.
	ComfortableCashFlow = 200.0

	// LowDownPaymentPercent is the warning threshold for thin down payments.
	LowDownPaymentPercent = 3.0

	// LongAmortizationYears is the warning threshold for drawn-out terms.
	LongAmortizationYears = 35.0
)

// Input carries the fields the classifier inspects.
type Input struct {
	DownPayment        float64
	DownPaymentPercent float64
	MonthlyCashFlow    float64
	NetRentalYield     float64
	AmortizationYears  float64
	TierMinYield       float64
}

// Classify applies the deterministic rule order: hard rejections first (first
// match wins), then accumulated warnings, then an affirming verdict.
func Classify(in Input) (Rating, []string) {
	if in.DownPayment < 0 {
		return NotViable, []string{fmt.Sprintf("down payment %s is negative", format.Currency(in.DownPayment))}
	}
	if in.MonthlyCashFlow < constants.MinMonthlyCashFlow {
		return NotViable, []string{fmt.Sprintf("monthly cash flow %s is below the %s floor",
			format.Currency(in.MonthlyCashFlow), format.Currency(constants.MinMonthlyCashFlow))}
	}
	if in.NetRentalYield < in.TierMinYield-FarBelowYieldMargin {
		return NotViable, []string{fmt.Sprintf("net rental yield %s is far below the %s tier minimum",
			format.Percent(in.NetRentalYield), format.Percent(in.TierMinYield))}
	}

	var warnings []string
	if in.DownPaymentPercent < LowDownPaymentPercent {
		warnings = append(warnings, fmt.Sprintf("down payment %s is very thin", format.Percent(in.DownPaymentPercent)))
	}
	if in.MonthlyCashFlow < ComfortableCashFlow {
		warnings = append(warnings, fmt.Sprintf("monthly cash flow %s leaves little buffer", format.Currency(in.MonthlyCashFlow)))
	}
	if in.NetRentalYield < in.TierMinYield {
		warnings = append(warnings, fmt.Sprintf("net rental yield %s is below the %s tier minimum",
			format.Percent(in.NetRentalYield), format.Percent(in.TierMinYield)))
	}
	if in.AmortizationYears > LongAmortizationYears {
		warnings = append(warnings, fmt.Sprintf("amortization of %.1f years is unusually long", in.AmortizationYears))
	}

	if len(warnings) > 0 {
		return Marginal, warnings
	}
	return Good, []string{"cash flow, yield, and down payment are all within healthy ranges"}
}
