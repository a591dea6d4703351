// Package output provides utilities for formatting and displaying computed
// offers.
package output

import (
	"fmt"
	"strings"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/offer"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []offer.OfferResult) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		fmt.Printf("--- %s offer ---\n", result.OfferType)
		if !result.IsBuyable {
			fmt.Printf("Not buyable: %s\n", result.UnbuyableReason)
			if i < len(results)-1 {
				fmt.Printf("\n")
			}
			continue
		}
		_, _ = p.Printf("Offer Price        | $%.2f\n", result.FinalOfferPrice)
		_, _ = p.Printf("Down Payment       | $%.2f (%.2f%%)\n", result.DownPayment, result.DownPaymentPercent)
		_, _ = p.Printf("Entry Fee          | $%.2f (%.2f%%)\n", result.FinalEntryFeeAmount, result.FinalEntryFeePercent)
		_, _ = p.Printf("Rehab Reserve      | $%.2f\n", result.RehabCost)
		_, _ = p.Printf("Loan Amount        | $%.2f\n", result.LoanAmount)
		_, _ = p.Printf("Monthly Payment    | $%.2f over %d years\n", result.MonthlyPayment, result.AmortizationYears)
		_, _ = p.Printf("Monthly Cash Flow  | $%.2f\n", result.FinalMonthlyCashFlow)
		_, _ = p.Printf("Net Rental Yield   | %.2f%%\n", result.NetRentalYield)
		_, _ = p.Printf("Balloon            | $%.2f due year %d ($%.2f principal paid)\n",
			result.BalloonPayment, result.BalloonPeriod, result.PrincipalPaid)
		_, _ = p.Printf("Appreciation Profit| $%.2f\n", result.AppreciationProfit)
		fmt.Printf("Viability          | %s (%s)\n", result.DealViability, strings.Join(result.ViabilityReasons, "; "))
		if i < len(results)-1 {
			fmt.Printf("\n")
		}
	}
}

// CsvString renders the offers in comma-separated value format, one row per
// tier.
func CsvString(results []offer.OfferResult) string {
	var b strings.Builder
	b.WriteString(`"offerType","isBuyable","offerPrice","downPayment","downPaymentPercent","entryFeeAmount","entryFeePercent","loanAmount","monthlyPayment","amortizationYears","monthlyCashFlow","netRentalYield","balloonPeriod","balloonPayment","appreciationProfit","viability"`)
	b.WriteString("\n")
	for _, result := range results {
		if !result.IsBuyable {
			fmt.Fprintf(&b, `"%s","false","","","","","","","","","","","","","","%s"`,
				result.OfferType, result.DealViability)
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, `"%s","true","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%d","%.2f","%.2f","%d","%.2f","%.2f","%s"`,
			result.OfferType,
			result.FinalOfferPrice,
			result.DownPayment,
			result.DownPaymentPercent,
			result.FinalEntryFeeAmount,
			result.FinalEntryFeePercent,
			result.LoanAmount,
			result.MonthlyPayment,
			result.AmortizationYears,
			result.FinalMonthlyCashFlow,
			result.NetRentalYield,
			result.BalloonPeriod,
			result.BalloonPayment,
			result.AppreciationProfit,
			result.DealViability,
		)
		b.WriteString("\n")
	}
	return b.String()
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []offer.OfferResult) {
	fmt.Print(CsvString(results))
}
