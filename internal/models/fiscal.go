// Package models defines the domain entities for PSC scenario economics.
// Inputs (fiscal terms, pricing, production, CAPEX selections, OPEX rules) are
// resolved by the caller; outputs (annual results, scenario metrics, rankings)
// are produced by the engine and replaced as a unit on every recalculation.
//
// Every input entity carries a Validate method so configuration errors are
// caught before the engine starts the per-year waterfall.
package models

import "math"

// splitTolerance absorbs rounding in user-entered split fractions (0.6723 + 0.3277).
const splitTolerance = 1e-6

// FiscalTerms is the immutable PSC parameter set for a scenario.
type FiscalTerms struct {
	Name                string  `json:"name" yaml:"name"`
	ContractorOilPretax float64 `json:"contractor_oil_pretax" yaml:"contractor_oil_pretax"`
	ContractorGasPretax float64 `json:"contractor_gas_pretax" yaml:"contractor_gas_pretax"`
	GovOilPretax        float64 `json:"gov_oil_pretax" yaml:"gov_oil_pretax"`
	GovGasPretax        float64 `json:"gov_gas_pretax" yaml:"gov_gas_pretax"`
	ContractorTaxRate   float64 `json:"contractor_tax_rate" yaml:"contractor_tax_rate"`
	DiscountRate        float64 `json:"discount_rate" yaml:"discount_rate"`
	DepreciationLife    int     `json:"depreciation_life" yaml:"depreciation_life"`     // years
	DepreciationFactor  float64 `json:"depreciation_factor" yaml:"depreciation_factor"` // declining-balance factor
	SalvageValue        float64 `json:"salvage_value" yaml:"salvage_value"`
	ASRRate             float64 `json:"asr_rate" yaml:"asr_rate"` // fraction of total CAPEX
	OpexEscalationRate  float64 `json:"opex_escalation_rate" yaml:"opex_escalation_rate"`
	ProjectStartYear    int     `json:"project_start_year" yaml:"project_start_year"`
	ProjectEndYear      int     `json:"project_end_year" yaml:"project_end_year"` // inclusive
}

// Validate checks that the fiscal terms describe a usable PSC regime.
func (f *FiscalTerms) Validate() error {
	fractions := []struct {
		field string
		value float64
	}{
		{"fiscal_terms.contractor_oil_pretax", f.ContractorOilPretax},
		{"fiscal_terms.contractor_gas_pretax", f.ContractorGasPretax},
		{"fiscal_terms.gov_oil_pretax", f.GovOilPretax},
		{"fiscal_terms.gov_gas_pretax", f.GovGasPretax},
	}
	for _, fr := range fractions {
		if fr.value < 0.0 || fr.value > 1.0 {
			return configErrorf(fr.field, "must be between 0.0 and 1.0, got %v", fr.value)
		}
	}
	if math.Abs(f.ContractorOilPretax+f.GovOilPretax-1.0) > splitTolerance {
		return configErrorf("fiscal_terms.oil_split", "contractor + government must equal 1.0, got %v", f.ContractorOilPretax+f.GovOilPretax)
	}
	if math.Abs(f.ContractorGasPretax+f.GovGasPretax-1.0) > splitTolerance {
		return configErrorf("fiscal_terms.gas_split", "contractor + government must equal 1.0, got %v", f.ContractorGasPretax+f.GovGasPretax)
	}
	if f.ContractorTaxRate < 0.0 || f.ContractorTaxRate >= 1.0 {
		return configErrorf("fiscal_terms.contractor_tax_rate", "must be in [0.0, 1.0), got %v", f.ContractorTaxRate)
	}
	if f.DiscountRate <= -1.0 {
		return configErrorf("fiscal_terms.discount_rate", "must be greater than -1.0, got %v", f.DiscountRate)
	}
	if f.DepreciationLife < 1 {
		return configErrorf("fiscal_terms.depreciation_life", "must be >= 1, got %d", f.DepreciationLife)
	}
	if f.DepreciationFactor <= 0 {
		return configErrorf("fiscal_terms.depreciation_factor", "must be positive, got %v", f.DepreciationFactor)
	}
	if f.SalvageValue < 0 {
		return configErrorf("fiscal_terms.salvage_value", "must not be negative, got %v", f.SalvageValue)
	}
	if f.ASRRate < 0 {
		return configErrorf("fiscal_terms.asr_rate", "must not be negative, got %v", f.ASRRate)
	}
	if f.OpexEscalationRate <= -1.0 {
		return configErrorf("fiscal_terms.opex_escalation_rate", "must be greater than -1.0, got %v", f.OpexEscalationRate)
	}
	if f.ProjectEndYear < f.ProjectStartYear {
		return configErrorf("fiscal_terms.project_end_year", "%d is before project_start_year %d", f.ProjectEndYear, f.ProjectStartYear)
	}
	return nil
}

// HorizonYears is the number of project years, both ends inclusive.
func (f *FiscalTerms) HorizonYears() int {
	return f.ProjectEndYear - f.ProjectStartYear + 1
}

// Period returns the 1-based project period of a calendar year.
func (f *FiscalTerms) Period(year int) int {
	return year - f.ProjectStartYear + 1
}

// InHorizon reports whether year falls inside [start, end].
func (f *FiscalTerms) InHorizon(year int) bool {
	return year >= f.ProjectStartYear && year <= f.ProjectEndYear
}

// PricingAssumptions holds commodity prices and unit conversions.
type PricingAssumptions struct {
	Name         string  `json:"name" yaml:"name"`
	OilPrice     float64 `json:"oil_price" yaml:"oil_price"`           // USD/bbl
	GasPrice     float64 `json:"gas_price" yaml:"gas_price"`           // USD/MMBTU
	MMSCFToMMBTU float64 `json:"mmscf_to_mmbtu" yaml:"mmscf_to_mmbtu"` // energy per volume
	WorkingDays  int     `json:"working_days" yaml:"working_days"`     // annualizes daily rates
	Currency     string  `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Validate checks that every pricing value is strictly positive.
func (p *PricingAssumptions) Validate() error {
	if p.OilPrice <= 0 {
		return configErrorf("pricing.oil_price", "must be positive, got %v", p.OilPrice)
	}
	if p.GasPrice <= 0 {
		return configErrorf("pricing.gas_price", "must be positive, got %v", p.GasPrice)
	}
	if p.MMSCFToMMBTU <= 0 {
		return configErrorf("pricing.mmscf_to_mmbtu", "must be positive, got %v", p.MMSCFToMMBTU)
	}
	if p.WorkingDays <= 0 {
		return configErrorf("pricing.working_days", "must be positive, got %d", p.WorkingDays)
	}
	return nil
}

// ProductionEnhancement holds the modeled EOR/EGR uplift fractions.
type ProductionEnhancement struct {
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	EORRate float64 `json:"eor_rate" yaml:"eor_rate"` // oil uplift, e.g. 0.20
	EGRRate float64 `json:"egr_rate" yaml:"egr_rate"` // gas uplift, e.g. 0.25
}

// Validate checks the uplift fractions.
func (e *ProductionEnhancement) Validate() error {
	if e.EORRate < 0 {
		return configErrorf("enhancement.eor_rate", "must not be negative, got %v", e.EORRate)
	}
	if e.EGRRate < 0 {
		return configErrorf("enhancement.egr_rate", "must not be negative, got %v", e.EGRRate)
	}
	return nil
}
