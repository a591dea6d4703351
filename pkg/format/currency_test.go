package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "$0.00"},
		{"Small", 95.5, "$95.50"},
		{"Thousands", 6000, "$6,000.00"},
		{"Negative", -1234.56, "-$1,234.56"},
		{"Offer price", 95700, "$95,700.00"},
		{"Millions", 1234567.89, "$1,234,567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, want %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(22.5); got != "22.50%" {
		t.Errorf("Percent(22.5) = %q, want 22.50%%", got)
	}
	if got := Percent(0); got != "0.00%" {
		t.Errorf("Percent(0) = %q, want 0.00%%", got)
	}
}
