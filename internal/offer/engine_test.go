package offer

import (
	"math"
	"testing"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/constants"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/viability"
	"go.uber.org/zap"
)

// Repository fixture: a modest rental that every tier should be able to buy.
func fixtureProperty() config.PropertyData {
	return config.PropertyData{
		ListedPrice:        87000,
		MonthlyRent:        1150,
		MonthlyPropertyTax: 95,
		MonthlyInsurance:   80,
		MonthlyHOAFee:      0,
		MonthlyOtherFees:   0,
	}
}

func newTestEngine() *Engine {
	return NewEngine(zap.NewNop(), config.DefaultConfiguration().Calculator)
}

func TestComputeAllOffersFixtureAllBuyable(t *testing.T) {
	engine := newTestEngine()
	conf := config.DefaultConfiguration().Calculator
	results := engine.ComputeAllOffers(fixtureProperty())

	expectedOrder := AllTiers()
	for i, result := range results {
		if result.OfferType != expectedOrder[i] {
			t.Fatalf("result %d has tier %s, want %s", i, result.OfferType, expectedOrder[i])
		}
		if !result.IsBuyable {
			t.Fatalf("tier %s should be buyable: %s", result.OfferType, result.UnbuyableReason)
		}
		if result.DownPaymentPercent < constants.MinDownPaymentPercent || result.DownPaymentPercent > constants.MaxDownPaymentPercent {
			t.Errorf("tier %s down payment %.2f%% outside [5, 10]", result.OfferType, result.DownPaymentPercent)
		}

		tierConf, err := conf.Tier(string(result.OfferType))
		if err != nil {
			t.Fatalf("tier lookup failed: %v", err)
		}
		if result.FinalEntryFeePercent > tierConf.EntryFeeMaxPercent {
			t.Errorf("tier %s entry fee %.2f%% exceeds cap %.2f%%",
				result.OfferType, result.FinalEntryFeePercent, tierConf.EntryFeeMaxPercent)
		}

		// The attached verdict must match a fresh classification of the same
		// numbers.
		rating, _ := viability.Classify(viability.Input{
			DownPayment:        result.DownPayment,
			DownPaymentPercent: result.DownPaymentPercent,
			MonthlyCashFlow:    result.FinalMonthlyCashFlow,
			NetRentalYield:     result.NetRentalYield,
			AmortizationYears:  float64(result.AmortizationYears),
			TierMinYield:       tierConf.MinNetRentalYield,
		})
		if result.DealViability != rating {
			t.Errorf("tier %s viability %s does not match reclassification %s",
				result.OfferType, result.DealViability, rating)
		}
	}
}

func TestOfferPriceMarkups(t *testing.T) {
	engine := newTestEngine()
	results := engine.ComputeAllOffers(fixtureProperty())

	expected := map[Tier]float64{
		TierOwnerFavored: 87000 * 1.10,
		TierBalanced:     87000 * 1.05,
		TierBuyerFavored: 87000,
	}
	for _, result := range results {
		if math.Abs(result.FinalOfferPrice-expected[result.OfferType]) > 0.01 {
			t.Errorf("tier %s price %.2f, want %.2f", result.OfferType, result.FinalOfferPrice, expected[result.OfferType])
		}
	}
}

func TestEntryFeeComponentIdentity(t *testing.T) {
	engine := newTestEngine()
	conf := config.DefaultConfiguration().Calculator
	results := engine.ComputeAllOffers(fixtureProperty())

	for _, result := range results {
		closingCost := result.FinalOfferPrice * conf.ClosingCostPercentOfOffer
		reconstructed := result.DownPayment + result.RehabCost + closingCost + conf.AssignmentFee
		if math.Abs(result.FinalEntryFeeAmount-reconstructed) > 0.05 {
			t.Errorf("tier %s entry fee %.2f != components %.2f", result.OfferType, result.FinalEntryFeeAmount, reconstructed)
		}

		if math.Abs(result.LoanAmount-(result.FinalOfferPrice-result.DownPayment)) > 0.05 {
			t.Errorf("tier %s loan %.2f != price minus down payment", result.OfferType, result.LoanAmount)
		}

		expectedPayment := result.LoanAmount / (float64(result.AmortizationYears) * 12)
		if math.Abs(result.MonthlyPayment-expectedPayment) > 0.05 {
			t.Errorf("tier %s payment %.2f != loan over term %.2f", result.OfferType, result.MonthlyPayment, expectedPayment)
		}
	}
}

func TestBalloonFiguresConsistent(t *testing.T) {
	engine := newTestEngine()
	results := engine.ComputeAllOffers(fixtureProperty())

	for _, result := range results {
		expectedPaid := math.Min(result.MonthlyPayment*12*float64(result.BalloonPeriod), result.LoanAmount)
		if math.Abs(result.PrincipalPaid-expectedPaid) > 0.05 {
			t.Errorf("tier %s principal paid %.2f, want %.2f", result.OfferType, result.PrincipalPaid, expectedPaid)
		}
		expectedBalloon := math.Max(0, result.LoanAmount-result.PrincipalPaid)
		if math.Abs(result.BalloonPayment-expectedBalloon) > 0.05 {
			t.Errorf("tier %s balloon %.2f, want %.2f", result.OfferType, result.BalloonPayment, expectedBalloon)
		}
	}
}

func TestClosedFormUnbuyableCheck(t *testing.T) {
	// Second repository fixture: strong rent relative to price. Whether each
	// tier is buyable must agree with the closed-form minimum entry fee at 5%
	// down.
	property := config.PropertyData{
		ListedPrice:        79900,
		MonthlyRent:        1514,
		MonthlyPropertyTax: 60,
		MonthlyInsurance:   70,
	}

	engine := newTestEngine()
	conf := config.DefaultConfiguration().Calculator
	results := engine.ComputeAllOffers(property)

	for _, result := range results {
		tierConf, err := conf.Tier(string(result.OfferType))
		if err != nil {
			t.Fatalf("tier lookup failed: %v", err)
		}
		price := property.ListedPrice * tierConf.PriceMarkup
		minEntryFee := 0.05*price + conf.RehabCost + conf.AssignmentFee + price*conf.ClosingCostPercentOfOffer
		expectBuyable := minEntryFee/price*100 <= tierConf.EntryFeeMaxPercent
		if result.IsBuyable != expectBuyable {
			t.Errorf("tier %s buyable=%v, closed-form check says %v (min entry %.2f%%)",
				result.OfferType, result.IsBuyable, expectBuyable, minEntryFee/price*100)
		}
	}
}

func TestUnbuyableSentinel(t *testing.T) {
	// At a $50,000 list price the fixed costs alone (rehab + assignment +
	// closing) push even a 5% down payment past every tier's entry fee cap.
	property := config.PropertyData{
		ListedPrice:        50000,
		MonthlyRent:        800,
		MonthlyPropertyTax: 50,
		MonthlyInsurance:   40,
	}

	engine := newTestEngine()
	results := engine.ComputeAllOffers(property)

	for _, result := range results {
		if result.IsBuyable {
			t.Fatalf("tier %s should be unbuyable at this price point", result.OfferType)
		}
		if result.UnbuyableReason == "" {
			t.Errorf("tier %s missing unbuyable reason", result.OfferType)
		}
		if result.DealViability != viability.NotViable {
			t.Errorf("tier %s viability %s, want not_viable", result.OfferType, result.DealViability)
		}
		if result.RehabCost != constants.DefaultRehabCost {
			t.Errorf("tier %s rehab cost %.2f, want default", result.OfferType, result.RehabCost)
		}
		// Every other numeric field stays zeroed.
		for name, value := range map[string]float64{
			"offer price":  result.FinalOfferPrice,
			"down payment": result.DownPayment,
			"entry fee":    result.FinalEntryFeeAmount,
			"loan amount":  result.LoanAmount,
			"payment":      result.MonthlyPayment,
			"cash flow":    result.FinalMonthlyCashFlow,
			"yield":        result.NetRentalYield,
			"principal":    result.PrincipalPaid,
			"balloon":      result.BalloonPayment,
			"appreciation": result.AppreciationProfit,
		} {
			if value != 0 {
				t.Errorf("tier %s %s = %.2f, want 0", result.OfferType, name, value)
			}
		}
	}
}

func TestAmortizationBounds(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name        string
		loan, rent  float64
		expectedMin int
		expectedMax int
	}{
		{"Small loan caps ceiling", 40000, 1000, 6, 15},
		{"Fixture loan", 90915, 1150, 11, 25},
		{"Mid loan high rent", 150000, 3000, 7, 30},
		{"Large loan", 250000, 5000, 7, 40},
		{"Payment floor extends ceiling", 190000, 700, 38, 40},
		{"Payment floor beyond ceiling clamps", 190000, 400, 40, 40},
		{"Zero rent leaves floor alone", 40000, 0, 1, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := engine.amortizationBounds(tt.loan, tt.rent)
			if gotMin != tt.expectedMin || gotMax != tt.expectedMax {
				t.Errorf("amortizationBounds(%v, %v) = (%d, %d), want (%d, %d)",
					tt.loan, tt.rent, gotMin, gotMax, tt.expectedMin, tt.expectedMax)
			}
		})
	}
}

func TestFindOptimalAmortizationRespectsBounds(t *testing.T) {
	engine := newTestEngine()
	tierConf := config.DefaultConfiguration().Calculator.OwnerFavored

	cand := engine.findOptimalAmortization(90915, 17699, 1150, 405, tierConf)
	if cand.years < 11 || cand.years > 25 {
		t.Fatalf("chosen term %d outside bounds [11, 25]", cand.years)
	}
	if cand.payment <= 0 || cand.cashFlow <= 0 {
		t.Fatalf("expected positive payment and cash flow, got %.2f / %.2f", cand.payment, cand.cashFlow)
	}
	if cand.score <= 0 {
		t.Fatalf("expected positive score, got %.2f", cand.score)
	}
}

func TestEngineIsStateless(t *testing.T) {
	engine := newTestEngine()
	first := engine.ComputeAllOffers(fixtureProperty())
	second := engine.ComputeAllOffers(fixtureProperty())

	for i := range first {
		if first[i].FinalOfferPrice != second[i].FinalOfferPrice ||
			first[i].DownPaymentPercent != second[i].DownPaymentPercent ||
			first[i].AmortizationYears != second[i].AmortizationYears ||
			first[i].NetRentalYield != second[i].NetRentalYield {
			t.Fatalf("repeated computation diverged for tier %s", first[i].OfferType)
		}
	}
}
