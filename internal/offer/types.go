package offer

import (
	"fmt"

	"github.com/daisuke-ai/maina-calculator-sub000/pkg/viability"
)

// Tier identifies one of the three offer postures.
type Tier string

const (
	TierOwnerFavored Tier = "owner_favored"
	TierBalanced     Tier = "balanced"
	TierBuyerFavored Tier = "buyer_favored"
)

// AllTiers returns the tiers in their fixed output order.
func AllTiers() [3]Tier {
	return [3]Tier{TierOwnerFavored, TierBalanced, TierBuyerFavored}
}

// ParseTier returns the canonical Tier for a wire value.
func ParseTier(value string) (Tier, error) {
	switch Tier(value) {
	case TierOwnerFavored, TierBalanced, TierBuyerFavored:
		return Tier(value), nil
	default:
		return "", fmt.Errorf("unknown offer tier %q", value)
	}
}

// OfferResult is the complete snapshot produced for one tier. Results are
// synthesized fresh on every call and never mutated in place.
type OfferResult struct {
	OfferType            Tier             `json:"offerType"`
	IsBuyable            bool             `json:"isBuyable"`
	UnbuyableReason      string           `json:"unbuyableReason,omitempty"`
	DealViability        viability.Rating `json:"dealViability"`
	ViabilityReasons     []string         `json:"viabilityReasons,omitempty"`
	FinalOfferPrice      float64          `json:"finalOfferPrice"`
	DownPayment          float64          `json:"downPayment"`
	DownPaymentPercent   float64          `json:"downPaymentPercent"`
	FinalEntryFeeAmount  float64          `json:"finalEntryFeeAmount"`
	FinalEntryFeePercent float64          `json:"finalEntryFeePercent"`
	LoanAmount           float64          `json:"loanAmount"`
	MonthlyPayment       float64          `json:"monthlyPayment"`
	AmortizationYears    int              `json:"amortizationYears"`
	FinalMonthlyCashFlow float64          `json:"finalMonthlyCashFlow"`
	NetRentalYield       float64          `json:"netRentalYield"`
	BalloonPeriod        int              `json:"balloonPeriod"`
	PrincipalPaid        float64          `json:"principalPaid"`
	BalloonPayment       float64          `json:"balloonPayment"`
	AppreciationProfit   float64          `json:"appreciationProfit"`
	RehabCost            float64          `json:"rehabCost"`
}
