package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/offer"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/viability"
)

func sampleResults() []offer.OfferResult {
	return []offer.OfferResult{
		{
			OfferType:            offer.TierOwnerFavored,
			IsBuyable:            true,
			DealViability:        viability.Good,
			ViabilityReasons:     []string{"cash flow, yield, and down payment are all within healthy ranges"},
			FinalOfferPrice:      95700,
			DownPayment:          9570,
			DownPaymentPercent:   10,
			FinalEntryFeeAmount:  18484,
			FinalEntryFeePercent: 19.31,
			LoanAmount:           86130,
			MonthlyPayment:       398.75,
			AmortizationYears:    18,
			FinalMonthlyCashFlow: 324.25,
			NetRentalYield:       21.05,
			BalloonPeriod:        3,
			PrincipalPaid:        14355,
			BalloonPayment:       71775,
			AppreciationProfit:   15000,
			RehabCost:            6000,
		},
		{
			OfferType:       offer.TierBalanced,
			IsBuyable:       false,
			UnbuyableReason: "entry fee exceeds the 20.00% tier cap at every down payment",
			DealViability:   viability.NotViable,
			RehabCost:       6000,
		},
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe, %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrettyFormat(t *testing.T) {
	result := captureStdout(t, func() { PrettyFormat(sampleResults()) })

	if !strings.Contains(result, "--- owner_favored offer ---") {
		t.Errorf("PrettyFormat missing tier header")
	}
	if !strings.Contains(result, "$95,700.00") {
		t.Errorf("PrettyFormat missing thousands-separated offer price")
	}
	if !strings.Contains(result, "$398.75 over 18 years") {
		t.Errorf("PrettyFormat missing payment line")
	}
	if !strings.Contains(result, "Viability          | good") {
		t.Errorf("PrettyFormat missing viability verdict")
	}
	if !strings.Contains(result, "Not buyable: entry fee exceeds the 20.00% tier cap") {
		t.Errorf("PrettyFormat missing the unbuyable reason")
	}
}

func TestPrettyFormatEmptyResults(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("PrettyFormat panicked with empty results: %v", r)
		}
	}()

	_ = captureStdout(t, func() { PrettyFormat(nil) })
}

func TestCsvString(t *testing.T) {
	result := CsvString(sampleResults())
	lines := strings.Split(strings.TrimSpace(result), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header plus one row per tier, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"offerType","isBuyable"`) {
		t.Errorf("CsvString header malformed: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"owner_favored","true","95700.00"`) {
		t.Errorf("CsvString buyable row malformed: %s", lines[1])
	}
	if !strings.Contains(lines[1], `"18"`) {
		t.Errorf("CsvString missing amortization years: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"balanced","false"`) {
		t.Errorf("CsvString unbuyable row malformed: %s", lines[2])
	}
	if !strings.Contains(lines[2], `"not_viable"`) {
		t.Errorf("CsvString unbuyable row missing viability: %s", lines[2])
	}
}

func TestCsvStringMatchesCsvFormat(t *testing.T) {
	expected := CsvString(sampleResults())
	printed := captureStdout(t, func() { CsvFormat(sampleResults()) })

	if expected != printed {
		t.Fatalf("CsvString and CsvFormat output mismatch\nCsvString:\n%s\nCsvFormat:\n%s", expected, printed)
	}
}
