// Package dynamic recomputes a user-editable deal snapshot after single-field
// edits. Each editable field owns an explicit recompute chain; there is no
// general constraint solver.
package dynamic

import (
	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
	"github.com/daisuke-ai/maina-calculator-sub000/internal/offer"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/viability"
)

// Editable field identifiers accepted by EditField.
const (
	FieldOfferPrice         = "offer_price"
	FieldDownPayment        = "down_payment"
	FieldDownPaymentPercent = "down_payment_percent"
	FieldEntryFeeAmount     = "entry_fee_amount"
	FieldEntryFeePercent    = "entry_fee_percent"
	FieldAmortizationYears  = "amortization_years"
	FieldMonthlyPayment     = "monthly_payment"
	FieldBalloonPeriod      = "balloon_period"
	FieldRehabCost          = "rehab_cost"
)

// Snapshot is one caller-owned state of an edited deal. Snapshots are
// replaced wholesale on every edit, never partially mutated, so an ordered
// edit log replays cleanly for undo.
type Snapshot struct {
	OfferType          offer.Tier       `json:"offerType"`
	OfferPrice         float64          `json:"offerPrice"`
	DownPayment        float64          `json:"downPayment"`
	DownPaymentPercent float64          `json:"downPaymentPercent"`
	EntryFeeAmount     float64          `json:"entryFeeAmount"`
	EntryFeePercent    float64          `json:"entryFeePercent"`
	ClosingCost        float64          `json:"closingCost"`
	AssignmentFee      float64          `json:"assignmentFee"`
	RehabCost          float64          `json:"rehabCost"`
	LoanAmount         float64          `json:"loanAmount"`
	MonthlyPayment     float64          `json:"monthlyPayment"`
	AmortizationYears  float64          `json:"amortizationYears"`
	BalloonPeriod      int              `json:"balloonPeriod"`
	PrincipalPaid      float64          `json:"principalPaid"`
	BalloonPayment     float64          `json:"balloonPayment"`
	AppreciationProfit float64          `json:"appreciationProfit"`
	MonthlyCashFlow    float64          `json:"monthlyCashFlow"`
	NetRentalYield     float64          `json:"netRentalYield"`
	DealViability      viability.Rating `json:"dealViability"`
	ViabilityReasons   []string         `json:"viabilityReasons,omitempty"`
	ValidationErrors   []string         `json:"validationErrors,omitempty"`
	IsValid            bool             `json:"isValid"`
}

// FromOffer seeds an editable snapshot from an optimizer result.
func FromOffer(result offer.OfferResult, conf config.CalculatorConfig) Snapshot {
	return Snapshot{
		OfferType:          result.OfferType,
		OfferPrice:         result.FinalOfferPrice,
		DownPayment:        result.DownPayment,
		DownPaymentPercent: result.DownPaymentPercent,
		EntryFeeAmount:     result.FinalEntryFeeAmount,
		EntryFeePercent:    result.FinalEntryFeePercent,
		ClosingCost:        result.FinalOfferPrice * conf.ClosingCostPercentOfOffer,
		AssignmentFee:      conf.AssignmentFee,
		RehabCost:          result.RehabCost,
		LoanAmount:         result.LoanAmount,
		MonthlyPayment:     result.MonthlyPayment,
		AmortizationYears:  float64(result.AmortizationYears),
		BalloonPeriod:      result.BalloonPeriod,
		PrincipalPaid:      result.PrincipalPaid,
		BalloonPayment:     result.BalloonPayment,
		AppreciationProfit: result.AppreciationProfit,
		MonthlyCashFlow:    result.FinalMonthlyCashFlow,
		NetRentalYield:     result.NetRentalYield,
		DealViability:      result.DealViability,
		ViabilityReasons:   append([]string(nil), result.ViabilityReasons...),
		IsValid:            true,
	}
}
