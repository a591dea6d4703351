// Package finance provides the pure formula primitives shared by the offer
// optimizer and the dynamic snapshot engine. Keeping both callers on these
// functions prevents the two from drifting apart on formula details.
package finance

import (
	"math"

	"github.com/daisuke-ai/maina-calculator-sub000/pkg/constants"
)

// NetRentalYield returns the annualized net income as a percentage of the
// entry fee. A zero or negative entry fee yields 0 rather than dividing.
func NetRentalYield(annualNetIncome, entryFee float64) float64 {
	if entryFee <= 0 {
		return 0
	}
	return annualNetIncome / entryFee * constants.PercentageMultiplier
}

// AppreciatedValue compounds a base value at the given annual rate for the
// given number of years.
func AppreciatedValue(base, appreciationPerYear float64, years int) float64 {
	return base * math.Pow(1+appreciationPerYear, float64(years))
}

// OperatingExpenses returns the total monthly expenses including debt service.
// Maintenance and property management are modeled as fractions of rent.
func OperatingExpenses(monthlyPayment, rent, tax, insurance, hoa, other, maintenanceRate, mgmtRate float64) float64 {
	return monthlyPayment + NonDebtExpenses(rent, tax, insurance, hoa, other, maintenanceRate, mgmtRate)
}

// NonDebtExpenses returns the monthly expenses excluding debt service.
func NonDebtExpenses(rent, tax, insurance, hoa, other, maintenanceRate, mgmtRate float64) float64 {
	return tax + insurance + hoa + other + rent*maintenanceRate + rent*mgmtRate
}

// MonthlyCashFlow returns rent minus all monthly expenses including the loan
// payment.
func MonthlyCashFlow(rent, nonDebtExpenses, monthlyPayment float64) float64 {
	return rent - nonDebtExpenses - monthlyPayment
}

// AmortizedMonthlyPayment returns the flat zero-interest monthly payment for
// the loan over the given term.
func AmortizedMonthlyPayment(loanAmount, amortizationYears float64) float64 {
	months := amortizationYears * constants.MonthsPerYear
	if months <= 0 {
		return 0
	}
	return loanAmount / months
}

// AmortizationYearsFromPayment back-solves the loan term from a flat monthly
// payment. A non-positive payment has no finite term; +Inf is returned and
// callers must treat it as invalid.
func AmortizationYearsFromPayment(loanAmount, monthlyPayment float64) float64 {
	if monthlyPayment <= 0 {
		return math.Inf(1)
	}
	return loanAmount / (monthlyPayment * constants.MonthsPerYear)
}

// PrincipalPaid returns the principal retired by flat payments over the
// balloon period, capped at the loan amount.
func PrincipalPaid(monthlyPayment float64, balloonPeriod int, loanAmount float64) float64 {
	paid := monthlyPayment * constants.MonthsPerYear * float64(balloonPeriod)
	return math.Min(paid, loanAmount)
}

// BalloonPayment returns the principal still owed at the end of the balloon
// period; never negative.
func BalloonPayment(loanAmount, principalPaid float64) float64 {
	return math.Max(0, loanAmount-principalPaid)
}
