package dynamic

import (
	"fmt"
	"math"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/constants"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/finance"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/validation"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/viability"
	"go.uber.org/zap"
)

// Engine applies single-field edits to deal snapshots. Like the offer engine
// it wraps the configuration immutably and is safe to share.
type Engine struct {
	logger *zap.Logger
	conf   config.CalculatorConfig
}

// NewEngine constructs an edit engine for the provided calculator
// configuration.
func NewEngine(logger *zap.Logger, conf config.CalculatorConfig) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, conf: conf}
}

// EditField applies one edit and returns a fresh snapshot with every
// dependent field recomputed. Out-of-range values are applied, not rejected;
// violations land in ValidationErrors. The only error case is an unknown
// field name.
func (e *Engine) EditField(snap Snapshot, field string, value float64, property config.PropertyData) (Snapshot, error) {
	next := snap
	next.ViabilityReasons = nil
	next.ValidationErrors = nil

	switch field {
	case FieldOfferPrice:
		e.editOfferPrice(&next, value)
	case FieldDownPayment:
		e.editDownPayment(&next, value)
	case FieldDownPaymentPercent:
		e.editDownPaymentPercent(&next, value)
	case FieldEntryFeeAmount:
		e.editEntryFeeAmount(&next, value)
	case FieldEntryFeePercent:
		e.editEntryFeePercent(&next, value)
	case FieldAmortizationYears:
		e.editAmortizationYears(&next, value)
	case FieldMonthlyPayment:
		e.editMonthlyPayment(&next, value)
	case FieldBalloonPeriod:
		next.BalloonPeriod = int(math.Round(value))
	case FieldRehabCost:
		e.editRehabCost(&next, value)
	default:
		return Snapshot{}, fmt.Errorf("field %q is not editable", field)
	}

	e.refreshBalloonFigures(&next, property)
	e.finalize(&next, property)

	e.logger.Debug("snapshot edited",
		zap.String("op", "dynamic.EditField"),
		zap.String("field", field),
		zap.Float64("value", value),
		zap.Bool("isValid", next.IsValid),
		zap.String("viability", string(next.DealViability)),
	)

	return next, nil
}

// editOfferPrice holds the down payment percentage and amortization term
// fixed and rescales everything priced off the offer.
func (e *Engine) editOfferPrice(next *Snapshot, price float64) {
	next.OfferPrice = price
	next.ClosingCost = price * e.conf.ClosingCostPercentOfOffer
	next.DownPayment = price * next.DownPaymentPercent / constants.PercentageMultiplier
	next.LoanAmount = price - next.DownPayment
	e.recomputeEntryFeeFromComponents(next)
	next.MonthlyPayment = finance.AmortizedMonthlyPayment(next.LoanAmount, next.AmortizationYears)
}

func (e *Engine) editDownPayment(next *Snapshot, amount float64) {
	next.DownPayment = amount
	if next.OfferPrice > 0 {
		next.DownPaymentPercent = amount / next.OfferPrice * constants.PercentageMultiplier
	} else {
		next.DownPaymentPercent = 0
	}
	e.applyDownPaymentChain(next)
}

func (e *Engine) editDownPaymentPercent(next *Snapshot, percent float64) {
	next.DownPaymentPercent = percent
	next.DownPayment = next.OfferPrice * percent / constants.PercentageMultiplier
	e.applyDownPaymentChain(next)
}

func (e *Engine) applyDownPaymentChain(next *Snapshot) {
	next.LoanAmount = next.OfferPrice - next.DownPayment
	e.recomputeEntryFeeFromComponents(next)
	next.MonthlyPayment = finance.AmortizedMonthlyPayment(next.LoanAmount, next.AmortizationYears)
}

func (e *Engine) editEntryFeeAmount(next *Snapshot, amount float64) {
	next.EntryFeeAmount = amount
	if next.OfferPrice > 0 {
		next.EntryFeePercent = amount / next.OfferPrice * constants.PercentageMultiplier
	} else {
		next.EntryFeePercent = 0
	}
	e.backSolveDownPayment(next)
}

func (e *Engine) editEntryFeePercent(next *Snapshot, percent float64) {
	next.EntryFeePercent = percent
	next.EntryFeeAmount = next.OfferPrice * percent / constants.PercentageMultiplier
	e.backSolveDownPayment(next)
}

// backSolveDownPayment derives the down payment from an edited entry fee by
// removing the fixed components, then rebuilds the loan and payment.
func (e *Engine) backSolveDownPayment(next *Snapshot) {
	next.DownPayment = next.EntryFeeAmount - next.RehabCost - next.ClosingCost - next.AssignmentFee
	if next.OfferPrice > 0 {
		next.DownPaymentPercent = next.DownPayment / next.OfferPrice * constants.PercentageMultiplier
	} else {
		next.DownPaymentPercent = 0
	}
	next.LoanAmount = next.OfferPrice - next.DownPayment
	next.MonthlyPayment = finance.AmortizedMonthlyPayment(next.LoanAmount, next.AmortizationYears)
}

func (e *Engine) editAmortizationYears(next *Snapshot, years float64) {
	next.AmortizationYears = years
	next.MonthlyPayment = finance.AmortizedMonthlyPayment(next.LoanAmount, years)
}

func (e *Engine) editMonthlyPayment(next *Snapshot, payment float64) {
	next.MonthlyPayment = payment
	next.AmortizationYears = finance.AmortizationYearsFromPayment(next.LoanAmount, payment)
}

// editRehabCost clamps to the rehab floor and reprices the entry fee; the
// rehab reserve is not a monthly expense, so cash flow is untouched.
func (e *Engine) editRehabCost(next *Snapshot, amount float64) {
	next.RehabCost = math.Max(amount, constants.DefaultRehabCost)
	e.recomputeEntryFeeFromComponents(next)
}

func (e *Engine) recomputeEntryFeeFromComponents(next *Snapshot) {
	next.EntryFeeAmount = next.DownPayment + next.RehabCost + next.ClosingCost + next.AssignmentFee
	if next.OfferPrice > 0 {
		next.EntryFeePercent = next.EntryFeeAmount / next.OfferPrice * constants.PercentageMultiplier
	} else {
		next.EntryFeePercent = 0
	}
}

// refreshBalloonFigures recomputes the balloon-dependent fields; every edit
// chain ends here because each one can move the payment or the loan.
func (e *Engine) refreshBalloonFigures(next *Snapshot, property config.PropertyData) {
	next.PrincipalPaid = finance.PrincipalPaid(next.MonthlyPayment, next.BalloonPeriod, next.LoanAmount)
	next.BalloonPayment = finance.BalloonPayment(next.LoanAmount, next.PrincipalPaid)

	profit := finance.AppreciatedValue(property.ListedPrice, e.conf.AppreciationPerYear, next.BalloonPeriod) - next.OfferPrice
	if profit <= 0 {
		if tierConf, err := e.conf.Tier(string(next.OfferType)); err == nil {
			profit = tierConf.AppreciationProfitFixed
		} else {
			profit = 0
		}
	}
	next.AppreciationProfit = profit
}

// finalize recomputes cash flow and returns last, then re-rates the deal and
// collects range violations. Runs after every edit without exception.
func (e *Engine) finalize(next *Snapshot, property config.PropertyData) {
	nonDebt := finance.NonDebtExpenses(property.MonthlyRent, property.MonthlyPropertyTax,
		property.MonthlyInsurance, property.MonthlyHOAFee, property.MonthlyOtherFees,
		e.conf.MonthlyMaintenanceRate, e.conf.MonthlyPropMgmtRate)
	next.MonthlyCashFlow = finance.MonthlyCashFlow(property.MonthlyRent, nonDebt, next.MonthlyPayment)
	next.NetRentalYield = finance.NetRentalYield(next.MonthlyCashFlow*constants.MonthsPerYear, next.EntryFeeAmount)

	tierMinYield := 0.0
	if tierConf, err := e.conf.Tier(string(next.OfferType)); err == nil {
		tierMinYield = tierConf.MinNetRentalYield
	}
	rating, reasons := viability.Classify(viability.Input{
		DownPayment:        next.DownPayment,
		DownPaymentPercent: next.DownPaymentPercent,
		MonthlyCashFlow:    next.MonthlyCashFlow,
		NetRentalYield:     next.NetRentalYield,
		AmortizationYears:  next.AmortizationYears,
		TierMinYield:       tierMinYield,
	})
	next.DealViability = rating
	next.ViabilityReasons = reasons

	next.ValidationErrors = validation.CheckSnapshot(validation.SnapshotFields{
		DownPayment:        next.DownPayment,
		DownPaymentPercent: next.DownPaymentPercent,
		EntryFeePercent:    next.EntryFeePercent,
		AmortizationYears:  next.AmortizationYears,
		MonthlyCashFlow:    next.MonthlyCashFlow,
	})
	next.IsValid = len(next.ValidationErrors) == 0
}
