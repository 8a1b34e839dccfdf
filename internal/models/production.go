package models

import "fmt"

// ProductionYear is one year of the base production profile. Rates are daily
// and annualized by PricingAssumptions.WorkingDays.
type ProductionYear struct {
	Year          int     `json:"year" yaml:"year"`
	OilRateBOPD   float64 `json:"oil_rate_bopd" yaml:"oil_rate_bopd"`
	GasRateMMSCFD float64 `json:"gas_rate_mmscfd" yaml:"gas_rate_mmscfd"`
}

// Validate checks that production rates are non-negative.
func (p *ProductionYear) Validate() error {
	if p.OilRateBOPD < 0 {
		return configErrorf(fmt.Sprintf("production[%d].oil_rate_bopd", p.Year), "must not be negative, got %v", p.OilRateBOPD)
	}
	if p.GasRateMMSCFD < 0 {
		return configErrorf(fmt.Sprintf("production[%d].gas_rate_mmscfd", p.Year), "must not be negative, got %v", p.GasRateMMSCFD)
	}
	return nil
}

// ProductionProfile is a named base production forecast shared by scenarios.
type ProductionProfile struct {
	Name  string           `json:"name" yaml:"name"`
	Years []ProductionYear `json:"years" yaml:"years"`
}

// ValidateProduction rejects empty profiles, negative rates and duplicated years.
func ValidateProduction(years []ProductionYear) error {
	if len(years) == 0 {
		return configErrorf("production", "profile is empty")
	}
	seen := make(map[int]bool, len(years))
	for i := range years {
		if seen[years[i].Year] {
			return configErrorf(fmt.Sprintf("production[%d]", years[i].Year), "year appears more than once")
		}
		seen[years[i].Year] = true
		if err := years[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
