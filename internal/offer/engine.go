// Package offer searches down-payment and amortization combinations to
// produce one seller-financing offer per tier.
package offer

import (
	"fmt"
	"math"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/constants"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/finance"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/format"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/mathutil"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/viability"
	"go.uber.org/zap"
)

// Engine wraps the calculator configuration; it holds no mutable state, so a
// single Engine is safe to share across calls.
type Engine struct {
	logger *zap.Logger
	conf   config.CalculatorConfig
}

// NewEngine constructs an Engine for the provided calculator configuration.
func NewEngine(logger *zap.Logger, conf config.CalculatorConfig) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, conf: conf}
}

// candidate is one probe of the search space.
type candidate struct {
	downPaymentPercent float64
	downPayment        float64
	entryFee           float64
	entryFeePercent    float64
	years              int
	payment            float64
	cashFlow           float64
	yield              float64
	score              float64
}

// ComputeAllOffers synthesizes one OfferResult per tier in fixed order:
// owner-favored, balanced, buyer-favored.
func (e *Engine) ComputeAllOffers(property config.PropertyData) [3]OfferResult {
	tiers := AllTiers()
	var results [3]OfferResult
	for i, tier := range tiers {
		results[i] = e.ComputeOffer(tier, property)
	}
	return results
}

// ComputeOffer runs the full search for a single tier.
func (e *Engine) ComputeOffer(tier Tier, property config.PropertyData) OfferResult {
	tierConf := e.tierConfig(tier)
	price := property.ListedPrice * tierConf.PriceMarkup

	best, buyable := e.findOptimalDownPayment(property, tierConf, price)
	if !buyable {
		return e.unbuyableResult(tier, tierConf, price)
	}

	result := e.assembleResult(tier, tierConf, property, price, best)

	e.logger.Debug("offer computed",
		zap.String("op", "offer.ComputeOffer"),
		zap.String("tier", string(tier)),
		zap.Float64("offerPrice", result.FinalOfferPrice),
		zap.Float64("downPaymentPercent", result.DownPaymentPercent),
		zap.Int("amortizationYears", result.AmortizationYears),
		zap.Float64("netRentalYield", result.NetRentalYield),
		zap.String("viability", string(result.DealViability)),
	)

	return result
}

func (e *Engine) tierConfig(tier Tier) config.TierConfig {
	switch tier {
	case TierOwnerFavored:
		return e.conf.OwnerFavored
	case TierBalanced:
		return e.conf.Balanced
	default:
		return e.conf.BuyerFavored
	}
}

// findOptimalDownPayment walks the 5.0-10.0% grid in half-point steps,
// filters candidates whose entry fee breaks the tier cap, runs the
// amortization search for each survivor, and keeps the highest score. The
// second return is false when every candidate fails the cap.
func (e *Engine) findOptimalDownPayment(property config.PropertyData, tierConf config.TierConfig, price float64) (candidate, bool) {
	closingCost := price * e.conf.ClosingCostPercentOfOffer
	nonDebt := finance.NonDebtExpenses(property.MonthlyRent, property.MonthlyPropertyTax,
		property.MonthlyInsurance, property.MonthlyHOAFee, property.MonthlyOtherFees,
		e.conf.MonthlyMaintenanceRate, e.conf.MonthlyPropMgmtRate)

	var best candidate
	found := false

	for pct := constants.MinDownPaymentPercent; pct <= constants.MaxDownPaymentPercent+1e-9; pct += constants.DownPaymentStepPercent {
		downPayment := mathutil.ApplyPercentage(price, pct)
		entryFee := downPayment + e.conf.RehabCost + closingCost + e.conf.AssignmentFee
		entryFeePercent := mathutil.CalculatePercentage(entryFee, price)
		if entryFeePercent > tierConf.EntryFeeMaxPercent {
			e.logger.Debug("down payment candidate rejected by entry fee cap",
				zap.String("op", "offer.findOptimalDownPayment"),
				zap.Float64("downPaymentPercent", pct),
				zap.Float64("entryFeePercent", entryFeePercent),
				zap.Float64("cap", tierConf.EntryFeeMaxPercent),
			)
			continue
		}

		loanAmount := price - downPayment
		cand := e.findOptimalAmortization(loanAmount, entryFee, property.MonthlyRent, nonDebt, tierConf)
		cand.downPaymentPercent = pct
		cand.downPayment = downPayment
		cand.entryFee = entryFee
		cand.entryFeePercent = entryFeePercent

		if !found || cand.score > best.score {
			best = cand
			found = true
		}
	}

	return best, found
}

// findOptimalAmortization runs the two-phase term search: a bisection over
// integer years against the tier's yield band, then a scan of the five
// neighbors once a probe lands inside the band. The single highest-scoring
// probe seen anywhere wins, not the final bisection point; the scored
// objective has an interior optimum the pure bisection can step past.
func (e *Engine) findOptimalAmortization(loanAmount, entryFee, rent, nonDebt float64, tierConf config.TierConfig) candidate {
	minYears, maxYears := e.amortizationBounds(loanAmount, rent)

	probe := func(years int) candidate {
		payment := finance.AmortizedMonthlyPayment(loanAmount, float64(years))
		cashFlow := finance.MonthlyCashFlow(rent, nonDebt, payment)
		yield := finance.NetRentalYield(cashFlow*constants.MonthsPerYear, entryFee)
		return candidate{
			years:    years,
			payment:  payment,
			cashFlow: cashFlow,
			yield:    yield,
			score:    calculateOfferScore(yield, cashFlow, years, e.conf.MaxAmortizationYears, tierConf),
		}
	}

	best := probe(minYears)
	consider := func(c candidate) {
		if c.score > best.score {
			best = c
		}
	}

	low, high := minYears, maxYears
	for low <= high {
		mid := (low + high) / 2
		c := probe(mid)
		consider(c)

		if c.yield < tierConf.MinNetRentalYield {
			high = mid - 1
			continue
		}
		if c.yield > tierConf.MaxNetRentalYield {
			low = mid + 1
			continue
		}

		// Inside the band: the bisection is done, but the score optimum may
		// sit on a neighboring year.
		for years := mid - 2; years <= mid+2; years++ {
			if years == mid || years < minYears || years > maxYears {
				continue
			}
			consider(probe(years))
		}
		break
	}

	return best
}

// amortizationBounds derives the integer search window for the term. Small
// loans cap the ceiling, high rents raise the floor, and the implied payment
// may never exceed 60% of rent.
func (e *Engine) amortizationBounds(loanAmount, rent float64) (int, int) {
	minYears := 1
	maxYears := e.conf.MaxAmortizationYears

	switch {
	case loanAmount < 50_000:
		maxYears = min(maxYears, 15)
	case loanAmount < 100_000:
		maxYears = min(maxYears, 25)
	case loanAmount < 200_000:
		maxYears = min(maxYears, 30)
	}

	if rent > 4_000 {
		minYears = 5
	} else if rent > 2_500 {
		minYears = 3
	}

	if rent > 0 {
		paymentFloorYears := int(math.Ceil(loanAmount / (constants.MaxPaymentToRentRatio * rent * constants.MonthsPerYear)))
		if paymentFloorYears > minYears {
			minYears = paymentFloorYears
		}
	}

	if minYears > maxYears {
		maxYears = min(minYears+5, e.conf.MaxAmortizationYears)
		if minYears > maxYears {
			// The payment floor wants a longer term than the configured
			// ceiling allows; search the ceiling and let viability flag it.
			minYears = maxYears
		}
	}

	return minYears, maxYears
}

// assembleResult derives the dependent fields from the winning candidate and
// attaches the viability verdict.
func (e *Engine) assembleResult(tier Tier, tierConf config.TierConfig, property config.PropertyData, price float64, best candidate) OfferResult {
	closingCost := price * e.conf.ClosingCostPercentOfOffer
	downPayment := best.entryFee - e.conf.RehabCost - closingCost - e.conf.AssignmentFee
	loanAmount := price - downPayment

	principalPaid := finance.PrincipalPaid(best.payment, tierConf.BalloonPeriod, loanAmount)
	balloonPayment := finance.BalloonPayment(loanAmount, principalPaid)

	appreciationProfit := finance.AppreciatedValue(property.ListedPrice, e.conf.AppreciationPerYear, tierConf.BalloonPeriod) - price
	if appreciationProfit <= 0 {
		appreciationProfit = tierConf.AppreciationProfitFixed
	}

	rating, reasons := viability.Classify(viability.Input{
		DownPayment:        downPayment,
		DownPaymentPercent: best.downPaymentPercent,
		MonthlyCashFlow:    best.cashFlow,
		NetRentalYield:     best.yield,
		AmortizationYears:  float64(best.years),
		TierMinYield:       tierConf.MinNetRentalYield,
	})

	return OfferResult{
		OfferType:            tier,
		IsBuyable:            true,
		DealViability:        rating,
		ViabilityReasons:     reasons,
		FinalOfferPrice:      mathutil.Round(price),
		DownPayment:          mathutil.Round(downPayment),
		DownPaymentPercent:   best.downPaymentPercent,
		FinalEntryFeeAmount:  mathutil.Round(best.entryFee),
		FinalEntryFeePercent: best.entryFeePercent,
		LoanAmount:           mathutil.Round(loanAmount),
		MonthlyPayment:       mathutil.Round(best.payment),
		AmortizationYears:    best.years,
		FinalMonthlyCashFlow: mathutil.Round(best.cashFlow),
		NetRentalYield:       best.yield,
		BalloonPeriod:        tierConf.BalloonPeriod,
		PrincipalPaid:        mathutil.Round(principalPaid),
		BalloonPayment:       mathutil.Round(balloonPayment),
		AppreciationProfit:   mathutil.Round(appreciationProfit),
		RehabCost:            e.conf.RehabCost,
	}
}

// unbuyableResult is the sentinel returned when no down payment on the grid
// keeps the entry fee under the tier cap. Numeric fields stay zeroed apart
// from the rehab reserve.
func (e *Engine) unbuyableResult(tier Tier, tierConf config.TierConfig, price float64) OfferResult {
	reason := fmt.Sprintf("no down payment between %s and %s keeps the entry fee within %s of the %s offer price",
		format.Percent(constants.MinDownPaymentPercent),
		format.Percent(constants.MaxDownPaymentPercent),
		format.Percent(tierConf.EntryFeeMaxPercent),
		format.Currency(price),
	)

	e.logger.Debug("tier is unbuyable",
		zap.String("op", "offer.unbuyableResult"),
		zap.String("tier", string(tier)),
		zap.Float64("offerPrice", price),
		zap.Float64("entryFeeCap", tierConf.EntryFeeMaxPercent),
	)

	return OfferResult{
		OfferType:        tier,
		IsBuyable:        false,
		UnbuyableReason:  reason,
		DealViability:    viability.NotViable,
		ViabilityReasons: []string{reason},
		RehabCost:        e.conf.RehabCost,
	}
}
