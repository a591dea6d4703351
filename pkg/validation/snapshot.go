// Package validation provides field-range checks for edited deal snapshots.
// Violations are reported as strings for display, never as errors; edits are
// always applied and recomputed first.
package validation

import (
	"fmt"
	"math"

	"github.com/daisuke-ai/maina-calculator-sub000/pkg/constants"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/format"
)

// SnapshotFields carries the values the range validator inspects.
type SnapshotFields struct {
	DownPayment        float64
	DownPaymentPercent float64
	EntryFeePercent    float64
	AmortizationYears  float64
	MonthlyCashFlow    float64
}

// CheckSnapshot returns one message per violated range constraint.
func CheckSnapshot(fields SnapshotFields) []string {
	var violations []string

	if fields.DownPayment < 0 {
		violations = append(violations, fmt.Sprintf("down payment %s cannot be negative", format.Currency(fields.DownPayment)))
	}
	if fields.DownPaymentPercent < constants.MinDownPaymentPercent || fields.DownPaymentPercent > constants.MaxDownPaymentPercent {
		violations = append(violations, fmt.Sprintf("down payment %s is outside the %s to %s range",
			format.Percent(fields.DownPaymentPercent),
			format.Percent(constants.MinDownPaymentPercent),
			format.Percent(constants.MaxDownPaymentPercent)))
	}
	if fields.EntryFeePercent > constants.MaxEntryFeePercent {
		violations = append(violations, fmt.Sprintf("entry fee %s exceeds the %s maximum",
			format.Percent(fields.EntryFeePercent), format.Percent(constants.MaxEntryFeePercent)))
	}
	if math.IsInf(fields.AmortizationYears, 1) {
		violations = append(violations, "amortization period is undefined because the monthly payment is not positive")
	} else if fields.AmortizationYears < constants.MinAmortizationYears || fields.AmortizationYears > constants.MaxAmortizationYears {
		violations = append(violations, fmt.Sprintf("amortization of %.1f years is outside the %.0f to %.0f year range",
			fields.AmortizationYears, constants.MinAmortizationYears, constants.MaxAmortizationYears))
	}
	if fields.MonthlyCashFlow < constants.MinMonthlyCashFlow {
		violations = append(violations, fmt.Sprintf("monthly cash flow %s is below the %s floor",
			format.Currency(fields.MonthlyCashFlow), format.Currency(constants.MinMonthlyCashFlow)))
	}

	return violations
}
