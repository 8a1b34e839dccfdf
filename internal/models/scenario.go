package models

import (
	"fmt"
	"strings"
)

// maxScenarioName bounds generated scenario names.
const maxScenarioName = 200

// Scenario is a fully resolved candidate configuration ready for calculation.
type Scenario struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Fiscal      *FiscalTerms           `json:"fiscal_terms"`
	Pricing     *PricingAssumptions    `json:"pricing"`
	Enhancement *ProductionEnhancement `json:"enhancement,omitempty"`
	Capex       []CapexSelection       `json:"capex"`
	Production  []ProductionYear       `json:"production"`
	OpexRules   []OpexRule             `json:"opex_rules,omitempty"`
}

// Validate checks the scenario and every parameter set it references.
func (s *Scenario) Validate() error {
	if s.ID == "" {
		return configErrorf("scenario.id", "must not be empty")
	}
	if s.Fiscal == nil {
		return configErrorf("fiscal_terms", "missing for scenario %s", s.ID)
	}
	if err := s.Fiscal.Validate(); err != nil {
		return err
	}
	if s.Pricing == nil {
		return configErrorf("pricing", "missing for scenario %s", s.ID)
	}
	if err := s.Pricing.Validate(); err != nil {
		return err
	}
	if s.Enhancement != nil {
		if err := s.Enhancement.Validate(); err != nil {
			return err
		}
	}
	if err := ValidateProduction(s.Production); err != nil {
		return err
	}
	codes := make(map[string]bool, len(s.Capex))
	for i := range s.Capex {
		if codes[s.Capex[i].Code] {
			return configErrorf(fmt.Sprintf("capex[%s]", s.Capex[i].Code), "selected more than once")
		}
		codes[s.Capex[i].Code] = true
		if err := s.Capex[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.OpexRules {
		if err := s.OpexRules[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Selection returns the CAPEX selection with the given code.
func (s *Scenario) Selection(code string) (*CapexSelection, bool) {
	for i := range s.Capex {
		if strings.EqualFold(s.Capex[i].Code, code) {
			return &s.Capex[i], true
		}
	}
	return nil, false
}

// DisplayName returns the scenario name, falling back to "S<id>: <labels>".
func (s *Scenario) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	labels := make([]string, 0, len(s.Capex))
	for i := range s.Capex {
		label := s.Capex[i].Name
		if label == "" {
			label = s.Capex[i].Code
		}
		labels = append(labels, label)
	}
	name := fmt.Sprintf("S%s: %s", s.ID, strings.Join(labels, " | "))
	if len(name) > maxScenarioName {
		name = name[:maxScenarioName-3] + "..."
	}
	return name
}
