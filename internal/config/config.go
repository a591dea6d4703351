// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"

	"github.com/daisuke-ai/maina-calculator-sub000/pkg/constants"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/format"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the offer calculator.
type Configuration struct {
	Calculator CalculatorConfig `yaml:"calculator" mapstructure:"calculator"`
	Logging    LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
	Server     ServerConfig     `yaml:"server,omitempty" mapstructure:"server"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// ServerConfig holds HTTP server configuration options
type ServerConfig struct {
	Address     string `yaml:"address,omitempty" mapstructure:"address"`
	MaxBodySize int64  `yaml:"maxBodySize,omitempty" mapstructure:"maxBodySize"`
}

// CalculatorConfig holds the process-wide tuning constants shared by the
// optimizer and the dynamic snapshot engine. All formula constants flow
// through this struct; nothing downstream hardcodes them.
type CalculatorConfig struct {
	AssignmentFee             float64    `yaml:"assignmentFee" mapstructure:"assignmentFee"`
	ClosingCostPercentOfOffer float64    `yaml:"closingCostPercentOfOffer" mapstructure:"closingCostPercentOfOffer"`
	MonthlyMaintenanceRate    float64    `yaml:"monthlyMaintenanceRate" mapstructure:"monthlyMaintenanceRate"`
	MonthlyPropMgmtRate       float64    `yaml:"monthlyPropMgmtRate" mapstructure:"monthlyPropMgmtRate"`
	AppreciationPerYear       float64    `yaml:"appreciationPerYear" mapstructure:"appreciationPerYear"`
	MaxAmortizationYears      int        `yaml:"maxAmortizationYears" mapstructure:"maxAmortizationYears"`
	RehabCost                 float64    `yaml:"rehabCost" mapstructure:"rehabCost"`
	OwnerFavored              TierConfig `yaml:"ownerFavored" mapstructure:"ownerFavored"`
	Balanced                  TierConfig `yaml:"balanced" mapstructure:"balanced"`
	BuyerFavored              TierConfig `yaml:"buyerFavored" mapstructure:"buyerFavored"`
}

// TierConfig holds the per-tier search parameters.
type TierConfig struct {
	PriceMarkup             float64 `yaml:"priceMarkup" mapstructure:"priceMarkup"`
	AppreciationProfitFixed float64 `yaml:"appreciationProfitFixed" mapstructure:"appreciationProfitFixed"`
	EntryFeeMaxPercent      float64 `yaml:"entryFeeMaxPercent" mapstructure:"entryFeeMaxPercent"`
	MinNetRentalYield       float64 `yaml:"minNetRentalYield" mapstructure:"minNetRentalYield"`
	MaxNetRentalYield       float64 `yaml:"maxNetRentalYield" mapstructure:"maxNetRentalYield"`
	BalloonPeriod           int     `yaml:"balloonPeriod" mapstructure:"balloonPeriod"`
}

// DefaultConfiguration returns the built-in tuning constants used when no
// config file overrides them.
func DefaultConfiguration() *Configuration {
	conf := &Configuration{}
	conf.ApplyDefaults()
	return conf
}

// ApplyDefaults fills any zero-valued calculator fields after unmarshalling.
func (conf *Configuration) ApplyDefaults() {
	calc := &conf.Calculator
	if calc.AssignmentFee == 0 {
		calc.AssignmentFee = 5000
	}
	if calc.ClosingCostPercentOfOffer == 0 {
		calc.ClosingCostPercentOfOffer = 0.02
	}
	if calc.MonthlyMaintenanceRate == 0 {
		calc.MonthlyMaintenanceRate = 0.10
	}
	if calc.MonthlyPropMgmtRate == 0 {
		calc.MonthlyPropMgmtRate = 0.10
	}
	if calc.AppreciationPerYear == 0 {
		calc.AppreciationPerYear = 0.045
	}
	if calc.MaxAmortizationYears == 0 {
		calc.MaxAmortizationYears = int(constants.MaxAmortizationYears)
	}
	if calc.RehabCost < constants.DefaultRehabCost {
		calc.RehabCost = constants.DefaultRehabCost
	}

	applyTierDefaults(&calc.OwnerFavored, TierConfig{
		PriceMarkup:             1.10,
		AppreciationProfitFixed: 15000,
		EntryFeeMaxPercent:      22.5,
		MinNetRentalYield:       12,
		MaxNetRentalYield:       18,
		BalloonPeriod:           3,
	})
	// The balanced tier halves the owner-favored markup over list price.
	applyTierDefaults(&calc.Balanced, TierConfig{
		PriceMarkup:             1 + (calc.OwnerFavored.PriceMarkup-1)/2,
		AppreciationProfitFixed: 12000,
		EntryFeeMaxPercent:      20,
		MinNetRentalYield:       15,
		MaxNetRentalYield:       20,
		BalloonPeriod:           4,
	})
	applyTierDefaults(&calc.BuyerFavored, TierConfig{
		PriceMarkup:             1.00,
		AppreciationProfitFixed: 10000,
		EntryFeeMaxPercent:      20,
		MinNetRentalYield:       18,
		MaxNetRentalYield:       25,
		BalloonPeriod:           5,
	})

	if conf.Server.Address == "" {
		conf.Server.Address = constants.DefaultServerAddress
	}
	if conf.Server.MaxBodySize <= 0 {
		conf.Server.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}
}

func applyTierDefaults(tier *TierConfig, defaults TierConfig) {
	if tier.PriceMarkup == 0 {
		tier.PriceMarkup = defaults.PriceMarkup
	}
	if tier.AppreciationProfitFixed == 0 {
		tier.AppreciationProfitFixed = defaults.AppreciationProfitFixed
	}
	if tier.EntryFeeMaxPercent == 0 {
		tier.EntryFeeMaxPercent = defaults.EntryFeeMaxPercent
	}
	if tier.MinNetRentalYield == 0 {
		tier.MinNetRentalYield = defaults.MinNetRentalYield
	}
	if tier.MaxNetRentalYield == 0 {
		tier.MaxNetRentalYield = defaults.MaxNetRentalYield
	}
	if tier.BalloonPeriod == 0 {
		tier.BalloonPeriod = defaults.BalloonPeriod
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from the
// provided reader; used by the HTTP server for request-supplied configs.
func LoadConfigurationFromReader(reader io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(reader); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Odd-but-legal configurations are not rejected.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	calc := conf.Calculator
	for _, tc := range []struct {
		name string
		tier TierConfig
	}{
		{"ownerFavored", calc.OwnerFavored},
		{"balanced", calc.Balanced},
		{"buyerFavored", calc.BuyerFavored},
	} {
		if tc.tier.MinNetRentalYield > tc.tier.MaxNetRentalYield {
			warnings = append(warnings, fmt.Sprintf("Tier '%s' has an inverted yield band (%.2f > %.2f)",
				tc.name, tc.tier.MinNetRentalYield, tc.tier.MaxNetRentalYield))
		}
		if tc.tier.PriceMarkup < 1 {
			warnings = append(warnings, fmt.Sprintf("Tier '%s' discounts below list price (markup %.2f)",
				tc.name, tc.tier.PriceMarkup))
		}
		if tc.tier.BalloonPeriod > calc.MaxAmortizationYears {
			warnings = append(warnings, fmt.Sprintf("Tier '%s' balloon period %d exceeds the amortization ceiling %d",
				tc.name, tc.tier.BalloonPeriod, calc.MaxAmortizationYears))
		}
	}

	if calc.ClosingCostPercentOfOffer >= 1 {
		warnings = append(warnings, fmt.Sprintf("Closing cost fraction %.2f looks like a percentage; expected a fraction of the offer price",
			calc.ClosingCostPercentOfOffer))
	}
	if calc.RehabCost > constants.DefaultRehabCost*10 {
		warnings = append(warnings, fmt.Sprintf("Rehab reserve %s is unusually high", format.Currency(calc.RehabCost)))
	}

	return warnings
}

// Tier returns the TierConfig for the named tier.
func (calc CalculatorConfig) Tier(name string) (TierConfig, error) {
	switch name {
	case "owner_favored":
		return calc.OwnerFavored, nil
	case "balanced":
		return calc.Balanced, nil
	case "buyer_favored":
		return calc.BuyerFavored, nil
	default:
		return TierConfig{}, fmt.Errorf("unknown offer tier %q", name)
	}
}
