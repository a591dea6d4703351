package config

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
)

// PropertyData describes the rental property an offer is computed for. Values
// are immutable per call; monthly fields are currency per month.
type PropertyData struct {
	ListedPrice        float64 `yaml:"listedPrice" mapstructure:"listedPrice" json:"listedPrice"`
	MonthlyRent        float64 `yaml:"monthlyRent" mapstructure:"monthlyRent" json:"monthlyRent"`
	MonthlyPropertyTax float64 `yaml:"monthlyPropertyTax" mapstructure:"monthlyPropertyTax" json:"monthlyPropertyTax"`
	MonthlyInsurance   float64 `yaml:"monthlyInsurance" mapstructure:"monthlyInsurance" json:"monthlyInsurance"`
	MonthlyHOAFee      float64 `yaml:"monthlyHoaFee" mapstructure:"monthlyHoaFee" json:"monthlyHoaFee"`
	MonthlyOtherFees   float64 `yaml:"monthlyOtherFees" mapstructure:"monthlyOtherFees" json:"monthlyOtherFees"`
}

// LoadProperty takes a file path as input and loads the YAML-formatted
// property data there.
func LoadProperty(propertyPath string) (*PropertyData, error) {
	v := viper.New()
	v.SetConfigFile(propertyPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading property file, %s", err)
	}

	var property PropertyData
	if err := v.Unmarshal(&property); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &property, nil
}

// LoadPropertyFromReader loads YAML-formatted property data from the provided
// reader.
func LoadPropertyFromReader(reader io.Reader) (*PropertyData, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(reader); err != nil {
		return nil, fmt.Errorf("error reading property data, %s", err)
	}

	var property PropertyData
	if err := v.Unmarshal(&property); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &property, nil
}

// Validate checks the property data for hard errors and returns warnings for
// odd-but-legal inputs.
func (p PropertyData) Validate() ([]string, error) {
	if p.ListedPrice <= 0 {
		return nil, fmt.Errorf("property must have a positive listed price")
	}
	if p.MonthlyRent < 0 || p.MonthlyPropertyTax < 0 || p.MonthlyInsurance < 0 ||
		p.MonthlyHOAFee < 0 || p.MonthlyOtherFees < 0 {
		return nil, fmt.Errorf("property monthly amounts cannot be negative")
	}

	var warnings []string
	if p.MonthlyRent == 0 {
		warnings = append(warnings, "Property has no rental income; every tier will be cash flow negative")
	}
	if p.MonthlyRent > 0 && p.ListedPrice/p.MonthlyRent > 400 {
		warnings = append(warnings, fmt.Sprintf("Price-to-rent ratio %.0f is unusually high", p.ListedPrice/p.MonthlyRent))
	}
	return warnings, nil
}
