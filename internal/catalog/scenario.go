package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rewired-gh/psceval/internal/models"
)

// ScenarioSpec is an unresolved scenario as written in a scenarios file.
// CAPEX can be listed explicitly, given per category as comma-separated
// labels, or both.
type ScenarioSpec struct {
	ID          string                     `yaml:"id"`
	Name        string                     `yaml:"name,omitempty"`
	Profile     string                     `yaml:"profile,omitempty"`
	Capex       []SelectionSpec            `yaml:"capex,omitempty"`
	Selections  map[string]string          `yaml:"selections,omitempty"` // category code or name -> "CO2 EOR, CO2 EGR"
	Fiscal      *models.FiscalTerms        `yaml:"fiscal_terms,omitempty"`
	Pricing     *models.PricingAssumptions `yaml:"pricing,omitempty"`
	Production  []models.ProductionYear    `yaml:"production,omitempty"`
	NoUplift    bool                       `yaml:"no_uplift,omitempty"`
}

// SelectionSpec picks one catalog item. A zero quantity uses the item default.
type SelectionSpec struct {
	Item     string  `yaml:"item"`
	Quantity float64 `yaml:"quantity,omitempty"`
}

type scenarioFile struct {
	Scenarios []ScenarioSpec `yaml:"scenarios"`
}

// LoadScenarios reads a scenarios file.
func LoadScenarios(path string) ([]ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios file: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes scenario definitions. IDs must be present and unique.
func ParseScenarios(data []byte) ([]ScenarioSpec, error) {
	var file scenarioFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scenarios: %w", err)
	}

	seen := make(map[string]bool, len(file.Scenarios))
	for i, s := range file.Scenarios {
		if s.ID == "" {
			return nil, &models.ConfigError{Field: fmt.Sprintf("scenarios[%d].id", i), Reason: "must not be empty"}
		}
		if seen[s.ID] {
			return nil, &models.ConfigError{Field: fmt.Sprintf("scenarios[%d].id", i), Reason: fmt.Sprintf("duplicate id %q", s.ID)}
		}
		seen[s.ID] = true
	}
	return file.Scenarios, nil
}

// Resolve turns a scenario definition into a calculable scenario using catalog defaults for
// anything the definition leaves out.
func (c *Catalog) Resolve(spec ScenarioSpec) (*models.Scenario, error) {
	fiscal := c.Fiscal
	if spec.Fiscal != nil {
		fiscal = *spec.Fiscal
	}
	pricing := c.Pricing
	if spec.Pricing != nil {
		pricing = *spec.Pricing
	}

	s := &models.Scenario{
		ID:      spec.ID,
		Name:    spec.Name,
		Fiscal:  &fiscal,
		Pricing: &pricing,
	}
	if c.Enhancement != nil && !spec.NoUplift {
		e := *c.Enhancement
		s.Enhancement = &e
	}

	if len(spec.Production) > 0 {
		s.Production = append([]models.ProductionYear(nil), spec.Production...)
	} else {
		profile, ok := c.Profile(spec.Profile)
		if !ok {
			return nil, &models.ConfigError{Field: "profile", Reason: fmt.Sprintf("production profile %q not found for scenario %s", spec.Profile, spec.ID)}
		}
		s.Production = append([]models.ProductionYear(nil), profile.Years...)
	}

	selections, err := c.expandSelections(spec)
	if err != nil {
		return nil, err
	}
	for _, sel := range selections {
		item, ignored, err := c.Lookup(sel.Item)
		if err != nil {
			return nil, err
		}
		if ignored {
			continue
		}
		if _, dup := s.Selection(item.Code); dup {
			return nil, &models.ConfigError{
				Field:  fmt.Sprintf("capex[%s]", item.Code),
				Reason: fmt.Sprintf("selected more than once in scenario %s", spec.ID),
			}
		}
		qty := sel.Quantity
		if qty == 0 {
			qty = item.DefaultQuantity
		}
		if qty == 0 {
			qty = 1
		}
		s.Capex = append(s.Capex, models.CapexSelection{
			Code:        item.Code,
			Name:        item.Name,
			Quantity:    qty,
			UnitCost:    item.UnitCost,
			Enhancement: item.Enhancement,
		})
		s.OpexRules = append(s.OpexRules, item.OpexRules...)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// expandSelections flattens explicit and per-category selections. Category
// entries are visited in catalog order so the result is deterministic.
func (c *Catalog) expandSelections(spec ScenarioSpec) ([]SelectionSpec, error) {
	out := append([]SelectionSpec(nil), spec.Capex...)
	if len(spec.Selections) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(spec.Selections))
	for key := range spec.Selections {
		if _, ok := c.Category(key); !ok {
			return nil, &models.ConfigError{Field: "selections", Reason: fmt.Sprintf("unknown category %q in scenario %s", key, spec.ID)}
		}
		keys = append(keys, key)
	}
	order := make(map[string]int, len(c.Categories))
	for i, cat := range c.Categories {
		order[cat.Code] = i
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, _ := c.Category(keys[i])
		cj, _ := c.Category(keys[j])
		return order[ci.Code] < order[cj.Code]
	})

	for _, key := range keys {
		for _, label := range strings.Split(spec.Selections[key], ",") {
			if label = strings.TrimSpace(label); label != "" {
				out = append(out, SelectionSpec{Item: label})
			}
		}
	}
	return out, nil
}

// ResolveAll resolves every definition, stopping at the first error.
func (c *Catalog) ResolveAll(specs []ScenarioSpec) ([]*models.Scenario, error) {
	scenarios := make([]*models.Scenario, 0, len(specs))
	for _, spec := range specs {
		s, err := c.Resolve(spec)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", spec.ID, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
