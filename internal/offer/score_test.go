package offer

import (
	"math"
	"testing"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/mathutil"
)

func TestYieldScorePiecewise(t *testing.T) {
	// Band [15, 20]: target 17.5, deviation allowance 2.
	const minYield, maxYield = 15.0, 20.0

	tests := []struct {
		name     string
		yield    float64
		expected float64
	}{
		{"At target", 17.5, 100},
		{"At band minimum", 15, 92.5},
		{"At band maximum", 20, 92.5},
		{"Just below band", 14, 77.5},
		{"At lower allowance edge", 13, 70},
		{"Below allowance", 10, 20},
		{"Far below", 8, 0},
		{"Just above band", 21, 97.5},
		{"At upper allowance edge", 22, 100},
		{"Far above decays", 27, 80 + 20*math.Exp(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yieldScore(tt.yield, minYield, maxYield); !mathutil.WithinTolerance(got, tt.expected, 1e-9) {
				t.Errorf("yieldScore(%v) = %v, want %v", tt.yield, got, tt.expected)
			}
		})
	}
}

func TestCashFlowScore(t *testing.T) {
	tests := []struct {
		name     string
		cashFlow float64
		expected float64
	}{
		{"Below floor", 99.99, 0},
		{"At floor", 100, 30},
		{"Thin buffer", 150, 45},
		{"At comfortable", 200, 60},
		{"Mid band", 350, 75},
		{"At strong", 500, 90},
		{"Strong", 700, 94},
		{"Capped", 1500, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cashFlowScore(tt.cashFlow); !mathutil.WithinTolerance(got, tt.expected, 1e-9) {
				t.Errorf("cashFlowScore(%v) = %v, want %v", tt.cashFlow, got, tt.expected)
			}
		})
	}
}

func TestAmortizationScore(t *testing.T) {
	if got := amortizationScore(20, 40); got != 50 {
		t.Errorf("amortizationScore(20, 40) = %v, want 50", got)
	}
	if got := amortizationScore(40, 40); got != 0 {
		t.Errorf("amortizationScore(40, 40) = %v, want 0", got)
	}
	if got := amortizationScore(10, 0); got != 0 {
		t.Errorf("amortizationScore with zero ceiling = %v, want 0", got)
	}
}

func TestCalculateOfferScoreWeights(t *testing.T) {
	tier := config.TierConfig{MinNetRentalYield: 15, MaxNetRentalYield: 20}

	// Yield at target, comfortable cash flow, mid-length term.
	got := calculateOfferScore(17.5, 350, 20, 40, tier)
	expected := 0.70*100 + 0.20*75 + 0.10*50
	if !mathutil.WithinTolerance(got, expected, 1e-9) {
		t.Errorf("calculateOfferScore = %v, want %v", got, expected)
	}
}
