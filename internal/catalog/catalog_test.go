package catalog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/psceval/internal/engine"
	"github.com/rewired-gh/psceval/internal/models"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	return c
}

func TestDefaultCatalog(t *testing.T) {
	c := mustDefault(t)

	if c.Source != EmbeddedSource {
		t.Errorf("Source = %q", c.Source)
	}
	if len(c.Items) != 10 {
		t.Errorf("got %d items, want 10", len(c.Items))
	}
	if len(c.Categories) != 4 {
		t.Errorf("got %d categories, want 4", len(c.Categories))
	}
	if c.Fiscal.ProjectStartYear != 2026 || c.Fiscal.ProjectEndYear != 2037 {
		t.Errorf("horizon = %d-%d", c.Fiscal.ProjectStartYear, c.Fiscal.ProjectEndYear)
	}
	if c.Enhancement == nil || c.Enhancement.EORRate != 0.20 || c.Enhancement.EGRRate != 0.25 {
		t.Errorf("Enhancement = %+v", c.Enhancement)
	}

	egr, _, err := c.Lookup("CCUS_EGR")
	if err != nil {
		t.Fatal(err)
	}
	if egr.UnitCost.String() != "20410366.5" {
		t.Errorf("EGR unit cost = %s", egr.UnitCost)
	}
	if egr.Enhancement != models.EnhancementEGR {
		t.Errorf("EGR enhancement = %q", egr.Enhancement)
	}
	if len(egr.OpexRules) != 1 || egr.OpexRules[0].Code != "CCUS_EGR" {
		t.Errorf("EGR rules = %+v", egr.OpexRules)
	}
	if got := len(c.ItemsInCategory("TRANS")); got != 4 {
		t.Errorf("TRANS has %d items, want 4", got)
	}
}

func TestLookup(t *testing.T) {
	c := mustDefault(t)
	tests := []struct {
		label       string
		wantCode    string
		wantIgnored bool
		wantErr     bool
	}{
		{label: "CO2 EOR", wantCode: "CCUS_EOR"},
		{label: "co2  egr", wantCode: "CCUS_EGR"},
		{label: "Pipeline", wantCode: "PIPELINE_CO2"},
		{label: "FGRS ON", wantCode: "FGRS"},
		{label: "FGRS OFF", wantIgnored: true},
		{label: "Nuclear", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			item, ignored, err := c.Lookup(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ignored != tt.wantIgnored {
				t.Errorf("ignored = %v, want %v", ignored, tt.wantIgnored)
			}
			if tt.wantCode != "" && item.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", item.Code, tt.wantCode)
			}
		})
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	base := string(defaultCatalog)
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown key", data: base + "\nsurprise: true\n"},
		{name: "bad unit cost", data: strings.Replace(base, `"3000000.00"`, `"three million"`, 1)},
		{name: "duplicate alias", data: strings.Replace(base, `aliases: ["FWT"]`, `aliases: ["CCPP"]`, 1)},
		{name: "unknown opex method", data: strings.Replace(base, "method: FIXED,", "method: LUMP,", 1)},
		{name: "broken split", data: strings.Replace(base, "gov_oil_pretax: 0.3277", "gov_oil_pretax: 0.5", 1)},
		{name: "unknown category", data: strings.Replace(base, "category: FLARE", "category: NUKE", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), "test"); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}

const scenariosYAML = `
scenarios:
  - id: "66"
    selections:
      flaring: FGRS ON
      production: CO2 EOR, CO2 EGR, Supersonic Separator
      power: CCPP, FWT
      transportation: Pipeline
  - id: "67"
    name: Carrier only
    capex:
      - item: VLGC
        quantity: 0.5
    selections:
      FLARE: FGRS OFF
`

func TestResolveScenarios(t *testing.T) {
	c := mustDefault(t)
	specs, err := ParseScenarios([]byte(scenariosYAML))
	if err != nil {
		t.Fatalf("ParseScenarios() error = %v", err)
	}
	scenarios, err := c.ResolveAll(specs)
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}

	full := scenarios[0]
	if got := models.TotalCapex(full.Capex).String(); got != "156620733" {
		t.Errorf("S66 CAPEX = %s, want 156620733", got)
	}
	if full.Capex[0].Code != "CCUS_EOR" || full.Capex[len(full.Capex)-1].Code != "FGRS" {
		t.Errorf("selection order = %s ... %s", full.Capex[0].Code, full.Capex[len(full.Capex)-1].Code)
	}
	if len(full.OpexRules) != 7 {
		t.Errorf("got %d OPEX rules, want 7", len(full.OpexRules))
	}
	if len(full.Production) != 12 {
		t.Errorf("got %d production years, want 12", len(full.Production))
	}
	if !strings.HasPrefix(full.DisplayName(), "S66: CCUS + CO2 EOR | ") {
		t.Errorf("DisplayName() = %q", full.DisplayName())
	}

	carrier := scenarios[1]
	if len(carrier.Capex) != 1 || carrier.Capex[0].Quantity != 0.5 {
		t.Errorf("S67 capex = %+v", carrier.Capex)
	}
	if carrier.DisplayName() != "Carrier only" {
		t.Errorf("DisplayName() = %q", carrier.DisplayName())
	}

	// Scenarios get their own copies of shared terms.
	full.Fiscal.DiscountRate = 0.5
	if c.Fiscal.DiscountRate != 0.13 || carrier.Fiscal.DiscountRate != 0.13 {
		t.Error("resolved scenarios share fiscal terms with the catalog")
	}
}

func TestResolvedScenarioCalculates(t *testing.T) {
	c := mustDefault(t)
	s, err := c.Resolve(ScenarioSpec{ID: "66", Selections: map[string]string{
		"PROD": "CO2 EOR, CO2 EGR, Supersonic Separator", "POWER": "CCPP, FWT", "TRANS": "Pipeline", "FLARE": "FGRS ON",
	}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	result, err := engine.New("").Calculate(s)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if math.Abs(result.Metrics.ASRAmount-7831036.65) > 1e-6 {
		t.Errorf("ASR = %v, want 7831036.65", result.Metrics.ASRAmount)
	}
	for _, y := range result.Years {
		if (y.Year == 2026 || y.Year == 2037) && y.ContractorAftertax != 0 {
			t.Errorf("%d contractor aftertax = %v, want 0", y.Year, y.ContractorAftertax)
		}
		if y.Year > 2030 && y.Depreciation != 0 {
			t.Errorf("%d depreciation = %v, want 0", y.Year, y.Depreciation)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	c := mustDefault(t)
	tests := []struct {
		name string
		spec ScenarioSpec
	}{
		{name: "unknown item", spec: ScenarioSpec{ID: "1", Capex: []SelectionSpec{{Item: "Fusion"}}}},
		{name: "unknown category", spec: ScenarioSpec{ID: "1", Selections: map[string]string{"MINING": "CCPP"}}},
		{name: "duplicate item", spec: ScenarioSpec{ID: "1", Capex: []SelectionSpec{{Item: "CCPP"}}, Selections: map[string]string{"POWER": "CCPP"}}},
		{name: "unknown profile", spec: ScenarioSpec{ID: "1", Profile: "optimistic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Resolve(tt.spec)
			var cfgErr *models.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Resolve() error = %v, want *models.ConfigError", err)
			}
		})
	}
}

func TestParseScenariosDuplicateID(t *testing.T) {
	_, err := ParseScenarios([]byte("scenarios:\n  - id: \"1\"\n  - id: \"1\"\n"))
	if err == nil {
		t.Error("ParseScenarios() error = nil, want duplicate id error")
	}
}

func TestRepositoryCaching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, defaultCatalog, 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewRepository(path, time.Hour)
	first, err := repo.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if first.Source != path {
		t.Errorf("Source = %q, want %q", first.Source, path)
	}
	second, _ := repo.Catalog()
	if first != second {
		t.Error("Catalog() reloaded despite a live cache entry")
	}

	items, err := repo.ItemsInCategory("POWER")
	if err != nil || len(items) != 2 {
		t.Errorf("ItemsInCategory(POWER) = %d items, %v", len(items), err)
	}

	repo.Reload()
	third, _ := repo.Catalog()
	if third == first {
		t.Error("Catalog() returned the stale value after Reload")
	}
}

func TestRepositoryMissingFile(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "missing.yaml"), time.Hour)
	if _, err := repo.Catalog(); err == nil {
		t.Error("Catalog() error = nil for a missing file")
	}
}
