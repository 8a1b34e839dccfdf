package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EnhancementKind marks a CAPEX technology that uplifts base production.
type EnhancementKind string

const (
	EnhancementNone EnhancementKind = ""
	EnhancementEOR  EnhancementKind = "eor" // enhanced oil recovery
	EnhancementEGR  EnhancementKind = "egr" // enhanced gas recovery
)

// Item codes that imply an enhancement when the catalog does not tag one.
const (
	CodeCCUSEOR = "CCUS_EOR"
	CodeCCUSEGR = "CCUS_EGR"
)

// EnhancementForCode resolves the enhancement implied by a catalog item code.
func EnhancementForCode(code string) EnhancementKind {
	switch strings.ToUpper(code) {
	case CodeCCUSEOR:
		return EnhancementEOR
	case CodeCCUSEGR:
		return EnhancementEGR
	default:
		return EnhancementNone
	}
}

// Valid reports whether k is one of the known enhancement kinds.
func (k EnhancementKind) Valid() bool {
	return k == EnhancementNone || k == EnhancementEOR || k == EnhancementEGR
}

// CapexItem is a catalog entry for a selectable technology or facility.
type CapexItem struct {
	Code            string          `json:"code" yaml:"code"`
	Name            string          `json:"name" yaml:"name"`
	Category        string          `json:"category" yaml:"category"`
	Subcategory     string          `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Unit            string          `json:"unit" yaml:"unit"`
	UnitCost        decimal.Decimal `json:"unit_cost" yaml:"-"`
	DefaultQuantity float64         `json:"default_quantity" yaml:"default_quantity"`
	Enhancement     EnhancementKind `json:"enhancement,omitempty" yaml:"enhancement,omitempty"`
	Aliases         []string        `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description     string          `json:"description,omitempty" yaml:"description,omitempty"`
	OpexRules       []OpexRule      `json:"opex_rules,omitempty" yaml:"opex_rules,omitempty"`
}

// Validate checks a catalog item.
func (c *CapexItem) Validate() error {
	field := fmt.Sprintf("capex_items[%s]", c.Code)
	if c.Code == "" {
		return configErrorf("capex_items.code", "must not be empty")
	}
	if c.Name == "" {
		return configErrorf(field+".name", "must not be empty")
	}
	if c.UnitCost.IsNegative() {
		return configErrorf(field+".unit_cost", "must not be negative, got %s", c.UnitCost)
	}
	if c.DefaultQuantity < 0 {
		return configErrorf(field+".default_quantity", "must not be negative, got %v", c.DefaultQuantity)
	}
	if !c.Enhancement.Valid() {
		return configErrorf(field+".enhancement", "unknown kind %q", c.Enhancement)
	}
	for i := range c.OpexRules {
		if err := c.OpexRules[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CapexSelection is a catalog item chosen for a scenario with a quantity.
type CapexSelection struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Quantity    float64         `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Enhancement EnhancementKind `json:"enhancement,omitempty"`
}

// TotalCost is quantity × unit cost, computed exactly.
func (s *CapexSelection) TotalCost() decimal.Decimal {
	return decimal.NewFromFloat(s.Quantity).Mul(s.UnitCost)
}

// Validate checks a scenario's CAPEX line.
func (s *CapexSelection) Validate() error {
	field := fmt.Sprintf("capex[%s]", s.Code)
	if s.Code == "" {
		return configErrorf("capex.code", "must not be empty")
	}
	if s.Quantity <= 0 {
		return configErrorf(field+".quantity", "must be positive, got %v", s.Quantity)
	}
	if s.UnitCost.IsNegative() {
		return configErrorf(field+".unit_cost", "must not be negative, got %s", s.UnitCost)
	}
	if !s.Enhancement.Valid() {
		return configErrorf(field+".enhancement", "unknown kind %q", s.Enhancement)
	}
	return nil
}

// TotalCapex sums every selection's cost exactly.
func TotalCapex(selections []CapexSelection) decimal.Decimal {
	total := decimal.Zero
	for i := range selections {
		total = total.Add(selections[i].TotalCost())
	}
	return total
}

// HasEnhancement reports whether any selection carries the given enhancement.
func HasEnhancement(selections []CapexSelection, kind EnhancementKind) bool {
	for i := range selections {
		if selections[i].Enhancement == kind {
			return true
		}
	}
	return false
}
