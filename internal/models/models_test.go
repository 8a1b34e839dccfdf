package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validFiscal() FiscalTerms {
	return FiscalTerms{
		Name:                "Base PSC",
		ContractorOilPretax: 0.6723,
		ContractorGasPretax: 0.6723,
		GovOilPretax:        0.3277,
		GovGasPretax:        0.3277,
		ContractorTaxRate:   0.405,
		DiscountRate:        0.13,
		DepreciationLife:    5,
		DepreciationFactor:  0.25,
		ASRRate:             0.05,
		OpexEscalationRate:  0.02,
		ProjectStartYear:    2026,
		ProjectEndYear:      2037,
	}
}

func validScenario() Scenario {
	fiscal := validFiscal()
	return Scenario{
		ID:      "1",
		Fiscal:  &fiscal,
		Pricing: &PricingAssumptions{OilPrice: 60, GasPrice: 5.5, MMSCFToMMBTU: 1027, WorkingDays: 220},
		Capex: []CapexSelection{
			{Code: "CCUS_EOR", Name: "CO2 EOR", Quantity: 1, UnitCost: decimal.RequireFromString("16510366.50"), Enhancement: EnhancementEOR},
		},
		Production: []ProductionYear{{Year: 2026, OilRateBOPD: 1000, GasRateMMSCFD: 5}},
	}
}

func TestFiscalTermsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FiscalTerms)
		wantErr bool
	}{
		{name: "valid terms", mutate: func(*FiscalTerms) {}},
		{name: "oil split does not sum to 1", mutate: func(f *FiscalTerms) { f.GovOilPretax = 0.4 }, wantErr: true},
		{name: "gas split does not sum to 1", mutate: func(f *FiscalTerms) { f.ContractorGasPretax = 0.5 }, wantErr: true},
		{name: "fraction above 1", mutate: func(f *FiscalTerms) { f.ContractorOilPretax = 1.2; f.GovOilPretax = -0.2 }, wantErr: true},
		{name: "tax rate of 1", mutate: func(f *FiscalTerms) { f.ContractorTaxRate = 1.0 }, wantErr: true},
		{name: "zero depreciation life", mutate: func(f *FiscalTerms) { f.DepreciationLife = 0 }, wantErr: true},
		{name: "zero depreciation factor", mutate: func(f *FiscalTerms) { f.DepreciationFactor = 0 }, wantErr: true},
		{name: "negative salvage", mutate: func(f *FiscalTerms) { f.SalvageValue = -1 }, wantErr: true},
		{name: "negative ASR rate", mutate: func(f *FiscalTerms) { f.ASRRate = -0.01 }, wantErr: true},
		{name: "discount rate at -1", mutate: func(f *FiscalTerms) { f.DiscountRate = -1 }, wantErr: true},
		{name: "end before start", mutate: func(f *FiscalTerms) { f.ProjectEndYear = 2025 }, wantErr: true},
		{name: "single year horizon", mutate: func(f *FiscalTerms) { f.ProjectEndYear = 2026 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFiscal()
			tt.mutate(&f)
			err := f.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("FiscalTerms.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			var cfgErr *ConfigError
			if err != nil && !errors.As(err, &cfgErr) {
				t.Errorf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestFiscalTermsHorizon(t *testing.T) {
	f := validFiscal()
	if got := f.HorizonYears(); got != 12 {
		t.Errorf("HorizonYears() = %d, want 12", got)
	}
	if got := f.Period(2030); got != 5 {
		t.Errorf("Period(2030) = %d, want 5", got)
	}
	if f.InHorizon(2038) || !f.InHorizon(2037) {
		t.Error("InHorizon() boundaries are wrong")
	}
}

func TestPricingValidate(t *testing.T) {
	tests := []struct {
		name    string
		pricing PricingAssumptions
		wantErr bool
	}{
		{name: "valid pricing", pricing: PricingAssumptions{OilPrice: 60, GasPrice: 5.5, MMSCFToMMBTU: 1027, WorkingDays: 220}},
		{name: "zero oil price", pricing: PricingAssumptions{GasPrice: 5.5, MMSCFToMMBTU: 1027, WorkingDays: 220}, wantErr: true},
		{name: "zero working days", pricing: PricingAssumptions{OilPrice: 60, GasPrice: 5.5, MMSCFToMMBTU: 1027}, wantErr: true},
		{name: "negative conversion", pricing: PricingAssumptions{OilPrice: 60, GasPrice: 5.5, MMSCFToMMBTU: -1, WorkingDays: 220}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pricing.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("PricingAssumptions.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpexRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    OpexRule
		wantErr bool
	}{
		{name: "percentage rule", rule: OpexRule{Code: "CCPP", Method: OpexPercentage, Rate: 0.05}},
		{name: "fixed rule with window", rule: OpexRule{Code: "FGRS", Method: OpexFixed, Rate: 150000, YearStart: 2, YearEnd: 6}},
		{name: "unknown method", rule: OpexRule{Code: "CCPP", Method: "LUMP_SUM", Rate: 0.05}, wantErr: true},
		{name: "negative rate", rule: OpexRule{Code: "CCPP", Method: OpexFixed, Rate: -1}, wantErr: true},
		{name: "end before start", rule: OpexRule{Code: "CCPP", Method: OpexFixed, Rate: 1, YearStart: 4, YearEnd: 3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("OpexRule.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpexRulePeriods(t *testing.T) {
	r := OpexRule{Method: OpexFixed}
	if r.FirstPeriod() != 1 || r.LastPeriod(12) != 12 {
		t.Errorf("defaults = [%d, %d], want [1, 12]", r.FirstPeriod(), r.LastPeriod(12))
	}
	r = OpexRule{Method: OpexFixed, YearStart: 3, YearEnd: 20}
	if r.FirstPeriod() != 3 || r.LastPeriod(12) != 20 {
		t.Errorf("explicit end = [%d, %d], want [3, 20]", r.FirstPeriod(), r.LastPeriod(12))
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr bool
	}{
		{name: "valid scenario", mutate: func(*Scenario) {}},
		{name: "missing fiscal terms", mutate: func(s *Scenario) { s.Fiscal = nil }, wantErr: true},
		{name: "missing pricing", mutate: func(s *Scenario) { s.Pricing = nil }, wantErr: true},
		{name: "empty production", mutate: func(s *Scenario) { s.Production = nil }, wantErr: true},
		{name: "duplicate production year", mutate: func(s *Scenario) {
			s.Production = append(s.Production, ProductionYear{Year: 2026, OilRateBOPD: 10})
		}, wantErr: true},
		{name: "negative gas rate", mutate: func(s *Scenario) { s.Production[0].GasRateMMSCFD = -1 }, wantErr: true},
		{name: "duplicate capex code", mutate: func(s *Scenario) { s.Capex = append(s.Capex, s.Capex[0]) }, wantErr: true},
		{name: "zero quantity", mutate: func(s *Scenario) { s.Capex[0].Quantity = 0 }, wantErr: true},
		{name: "no capex at all", mutate: func(s *Scenario) { s.Capex = nil }},
		{name: "bad opex method", mutate: func(s *Scenario) {
			s.OpexRules = []OpexRule{{Code: "CCUS_EOR", Method: "BOGUS"}}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Scenario.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTotalCapexIsExact(t *testing.T) {
	selections := []CapexSelection{
		{Code: "CCUS_EGR", Quantity: 1, UnitCost: decimal.RequireFromString("20410366.50")},
		{Code: "CCUS_EOR", Quantity: 1, UnitCost: decimal.RequireFromString("16510366.50")},
		{Code: "CCPP", Quantity: 1, UnitCost: decimal.RequireFromString("8400000")},
		{Code: "PIPELINE_CO2", Quantity: 30, UnitCost: decimal.RequireFromString("3000000")},
		{Code: "VLGC", Quantity: 0.25, UnitCost: decimal.RequireFromString("110000000")},
		{Code: "FGRS", Quantity: 1, UnitCost: decimal.RequireFromString("3000000")},
	}
	want := decimal.RequireFromString("165820733")
	if got := TotalCapex(selections); !got.Equal(want) {
		t.Errorf("TotalCapex() = %s, want %s", got, want)
	}
}

func TestEnhancementForCode(t *testing.T) {
	tests := []struct {
		code string
		want EnhancementKind
	}{
		{"CCUS_EOR", EnhancementEOR},
		{"ccus_egr", EnhancementEGR},
		{"CCPP", EnhancementNone},
	}
	for _, tt := range tests {
		if got := EnhancementForCode(tt.code); got != tt.want {
			t.Errorf("EnhancementForCode(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestScenarioDisplayName(t *testing.T) {
	s := validScenario()
	if got := s.DisplayName(); got != "S1: CO2 EOR" {
		t.Errorf("DisplayName() = %q", got)
	}

	s.Name = "Custom"
	if got := s.DisplayName(); got != "Custom" {
		t.Errorf("DisplayName() = %q, want explicit name", got)
	}

	s.Name = ""
	for i := 0; i < 40; i++ {
		s.Capex = append(s.Capex, CapexSelection{Code: "X", Name: "Very Long Technology Name"})
	}
	got := s.DisplayName()
	if len(got) != maxScenarioName || !strings.HasSuffix(got, "...") {
		t.Errorf("DisplayName() length = %d, want %d with ellipsis", len(got), maxScenarioName)
	}
}
