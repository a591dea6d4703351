// Package constants provides shared constants for the offer calculator.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Offer search constants
const (
	// MinDownPaymentPercent is the lowest down payment considered by the search
	MinDownPaymentPercent = 5.0

	// MaxDownPaymentPercent is the highest down payment considered by the search
	MaxDownPaymentPercent = 10.0

	// DownPaymentStepPercent is the grid step between down payment candidates
	DownPaymentStepPercent = 0.5

	// DefaultRehabCost is the flat rehab reserve included in every entry fee
	DefaultRehabCost = 6000.0

	// MaxPaymentToRentRatio caps the implied monthly payment as a share of rent
	MaxPaymentToRentRatio = 0.6
)

// Snapshot validation bounds
const (
	// MinAmortizationYears is the shortest loan term a snapshot may carry
	MinAmortizationYears = 1.0

	// MaxAmortizationYears is the longest loan term a snapshot may carry
	MaxAmortizationYears = 40.0

	// MinMonthlyCashFlow is the cash flow floor below which a deal is flagged
	MinMonthlyCashFlow = 100.0

	// MaxEntryFeePercent is the entry fee ceiling applied during edits
	MaxEntryFeePercent = 20.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultPropertyFile is the default property input file name
	DefaultPropertyFile = "property.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the offer API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
