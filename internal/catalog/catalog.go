// Package catalog loads CAPEX master data, OPEX rules and base assumptions
// from YAML and resolves scenario definitions against them.
//
// A built-in reference catalog is embedded in the binary and used when no
// catalog file is configured.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rewired-gh/psceval/internal/models"
)

//go:embed default.yaml
var defaultCatalog []byte

// EmbeddedSource names the built-in catalog.
const EmbeddedSource = "embedded"

// Category groups CAPEX items for selection.
type Category struct {
	Code        string `yaml:"code" json:"code"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Catalog is a validated, indexed set of master data.
type Catalog struct {
	Source      string
	Categories  []Category
	Fiscal      models.FiscalTerms
	Pricing     models.PricingAssumptions
	Enhancement *models.ProductionEnhancement
	Profiles    []models.ProductionProfile
	Items       []models.CapexItem

	ignored map[string]bool
	byLabel map[string]int // normalized code or alias -> index into Items
}

type catalogFile struct {
	Categories    []Category                    `yaml:"categories"`
	Fiscal        models.FiscalTerms            `yaml:"fiscal_terms"`
	Pricing       models.PricingAssumptions     `yaml:"pricing"`
	Enhancement   *models.ProductionEnhancement `yaml:"enhancement"`
	Profiles      []models.ProductionProfile    `yaml:"production_profiles"`
	IgnoredLabels []string                      `yaml:"ignored_labels"`
	Items         []itemFile                    `yaml:"capex_items"`
}

// itemFile carries unit_cost as a string so it parses exactly.
type itemFile struct {
	models.CapexItem `yaml:",inline"`
	UnitCost         string `yaml:"unit_cost"`
}

// Default returns the embedded reference catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, EmbeddedSource)
}

// Load reads a catalog file. An empty path loads the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes and validates catalog YAML. Unknown keys are rejected.
func Parse(data []byte, source string) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", source, err)
	}

	c := &Catalog{
		Source:      source,
		Categories:  file.Categories,
		Fiscal:      file.Fiscal,
		Pricing:     file.Pricing,
		Enhancement: file.Enhancement,
		Profiles:    file.Profiles,
		ignored:     make(map[string]bool),
		byLabel:     make(map[string]int),
	}
	for _, label := range file.IgnoredLabels {
		c.ignored[normalize(label)] = true
	}

	for _, f := range file.Items {
		item := f.CapexItem
		cost, err := decimal.NewFromString(strings.TrimSpace(f.UnitCost))
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", source, &models.ConfigError{
				Field:  fmt.Sprintf("capex_items[%s].unit_cost", item.Code),
				Reason: fmt.Sprintf("not a decimal number: %q", f.UnitCost),
			})
		}
		item.UnitCost = cost
		if item.Enhancement == models.EnhancementNone {
			item.Enhancement = models.EnhancementForCode(item.Code)
		}
		for i := range item.OpexRules {
			item.OpexRules[i].Code = item.Code
		}
		if err := c.addItem(item); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", source, err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", source, err)
	}
	return c, nil
}

func (c *Catalog) addItem(item models.CapexItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	idx := len(c.Items)
	for _, label := range append([]string{item.Code}, item.Aliases...) {
		key := normalize(label)
		if prev, ok := c.byLabel[key]; ok && prev != idx {
			return &models.ConfigError{
				Field:  fmt.Sprintf("capex_items[%s]", item.Code),
				Reason: fmt.Sprintf("label %q already used by %s", label, c.Items[prev].Code),
			}
		}
		c.byLabel[key] = idx
	}
	c.Items = append(c.Items, item)
	return nil
}

func (c *Catalog) validate() error {
	if err := c.Fiscal.Validate(); err != nil {
		return err
	}
	if err := c.Pricing.Validate(); err != nil {
		return err
	}
	if c.Enhancement != nil {
		if err := c.Enhancement.Validate(); err != nil {
			return err
		}
	}
	known := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		known[cat.Code] = true
	}
	for _, item := range c.Items {
		if item.Category != "" && !known[item.Category] {
			return &models.ConfigError{
				Field:  fmt.Sprintf("capex_items[%s].category", item.Code),
				Reason: fmt.Sprintf("unknown category %q", item.Category),
			}
		}
	}
	for _, p := range c.Profiles {
		if err := models.ValidateProduction(p.Years); err != nil {
			return fmt.Errorf("production profile %q: %w", p.Name, err)
		}
	}
	return nil
}

// Lookup finds an item by code or alias, case-insensitively. ignored is
// true for labels that intentionally select nothing.
func (c *Catalog) Lookup(label string) (item *models.CapexItem, ignored bool, err error) {
	key := normalize(label)
	if c.ignored[key] {
		return nil, true, nil
	}
	idx, ok := c.byLabel[key]
	if !ok {
		return nil, false, &models.ConfigError{Field: "capex", Reason: fmt.Sprintf("unknown CAPEX item %q", label)}
	}
	return &c.Items[idx], false, nil
}

// ItemsInCategory returns the items of one category in catalog order.
func (c *Catalog) ItemsInCategory(code string) []models.CapexItem {
	var items []models.CapexItem
	for _, item := range c.Items {
		if strings.EqualFold(item.Category, code) {
			items = append(items, item)
		}
	}
	return items
}

// Category finds a category by code or name.
func (c *Catalog) Category(key string) (Category, bool) {
	for _, cat := range c.Categories {
		if strings.EqualFold(cat.Code, key) || strings.EqualFold(cat.Name, key) {
			return cat, true
		}
	}
	return Category{}, false
}

// Profile returns the named production profile; an empty name selects the first.
func (c *Catalog) Profile(name string) (*models.ProductionProfile, bool) {
	if len(c.Profiles) == 0 {
		return nil, false
	}
	if name == "" {
		return &c.Profiles[0], true
	}
	for i := range c.Profiles {
		if strings.EqualFold(c.Profiles[i].Name, name) {
			return &c.Profiles[i], true
		}
	}
	return nil, false
}

func normalize(label string) string {
	return strings.ToUpper(strings.Join(strings.Fields(label), " "))
}
