package engine

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rewired-gh/psceval/internal/models"
)

func TestGenerateOpexEscalation(t *testing.T) {
	s := fullCCUSScenario()
	s.OpexRules = []models.OpexRule{{Code: "PIPELINE_CO2", Name: "Pipeline Maintenance", Method: models.OpexFixed, Rate: 150000}}

	entries, err := GenerateOpex(s)
	if err != nil {
		t.Fatalf("GenerateOpex() error = %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("got %d entries, want 12", len(entries))
	}
	for k, e := range entries {
		want := 150000 * math.Pow(1.02, float64(k))
		if e.Year != 2026+k {
			t.Errorf("entry %d year = %d, want %d", k, e.Year, 2026+k)
		}
		if math.Abs(e.Amount-want) > 1e-6 {
			t.Errorf("%d amount = %v, want %v", e.Year, e.Amount, want)
		}
	}
	if entries[0].Name != "Pipeline Maintenance (Pipeline)" {
		t.Errorf("Name = %q", entries[0].Name)
	}
	if !strings.Contains(entries[3].Note, "escalated 3 years") {
		t.Errorf("Note = %q", entries[3].Note)
	}
}

func TestGenerateOpexMethods(t *testing.T) {
	s := fullCCUSScenario()
	s.Capex = append(s.Capex, selection("OWS", "OWS", 4, "25000"))
	s.OpexRules = []models.OpexRule{
		{Code: "CCPP", Name: "Power Plant O&M", Method: models.OpexPercentage, Rate: 0.05, YearEnd: 1},
		{Code: "PIPELINE_CO2", Name: "Pipeline Maintenance", Method: models.OpexFixed, Rate: 150000, YearEnd: 1},
		{Code: "OWS", Name: "Separator Service", Method: models.OpexFixedPerUnit, Rate: 1250, YearEnd: 1},
	}

	entries, err := GenerateOpex(s)
	if err != nil {
		t.Fatalf("GenerateOpex() error = %v", err)
	}
	want := map[string]float64{"CCPP": 420000, "PIPELINE_CO2": 150000, "OWS": 5000}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for _, e := range entries {
		if math.Abs(e.Amount-want[e.Code]) > 1e-6 {
			t.Errorf("%s amount = %v, want %v", e.Code, e.Amount, want[e.Code])
		}
	}
}

func TestGenerateOpexWindow(t *testing.T) {
	s := fullCCUSScenario()
	s.OpexRules = []models.OpexRule{
		{Code: "FGRS", Name: "Flare O&M", Method: models.OpexFixed, Rate: 100, YearStart: 3, YearEnd: 5},
		{Code: "CCPP", Name: "Power O&M", Method: models.OpexFixed, Rate: 100, YearStart: 11, YearEnd: 14},
	}

	entries, err := GenerateOpex(s)
	if err != nil {
		t.Fatalf("GenerateOpex() error = %v", err)
	}
	years := map[string][]int{}
	amounts := map[string][]float64{}
	for _, e := range entries {
		years[e.Code] = append(years[e.Code], e.Year)
		amounts[e.Code] = append(amounts[e.Code], e.Amount)
	}
	if got := years["FGRS"]; len(got) != 3 || got[0] != 2028 || got[2] != 2030 {
		t.Errorf("FGRS years = %v, want 2028-2030", got)
	}
	// An explicit year_end past the horizon still emits every year.
	if got := years["CCPP"]; len(got) != 4 || got[0] != 2036 || got[3] != 2039 {
		t.Errorf("CCPP years = %v, want 2036-2039", got)
	}
	// Escalation compounds from project start, not window start.
	if got := amounts["FGRS"][0]; math.Abs(got-100*math.Pow(1.02, 2)) > 1e-9 {
		t.Errorf("2028 amount = %v, want %v", got, 100*math.Pow(1.02, 2))
	}
}

func TestGenerateOpexIgnoresRulesForUnselectedItems(t *testing.T) {
	s := fullCCUSScenario()
	s.OpexRules = []models.OpexRule{
		{Code: "PIPELINE_CO2", Name: "Pipeline Maintenance", Method: models.OpexFixed, Rate: 150000},
		{Code: "OWS", Name: "OWS Operations", Method: models.OpexFixedPerUnit, Rate: 1250},
	}

	entries, err := GenerateOpex(s)
	if err != nil {
		t.Fatalf("GenerateOpex() error = %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("got %d entries, want 12", len(entries))
	}
	for _, e := range entries {
		if e.Code != "PIPELINE_CO2" {
			t.Errorf("unexpected entry for %s", e.Code)
		}
	}

	result, err := New("").Calculate(s)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	want := 0.0
	for k := 0; k < 12; k++ {
		want += 150000 * math.Pow(1.02, float64(k))
	}
	if math.Abs(result.Metrics.TotalOpex-want) > 1e-6 {
		t.Errorf("TotalOpex = %v, want %v", result.Metrics.TotalOpex, want)
	}
}

func TestGenerateOpexRejectsMalformedRule(t *testing.T) {
	s := fullCCUSScenario()
	s.OpexRules = []models.OpexRule{{Code: "OWS", Name: "OWS Operations", Method: "LUMP", Rate: 1}}

	var cfgErr *models.ConfigError
	if _, err := GenerateOpex(s); !errors.As(err, &cfgErr) {
		t.Errorf("GenerateOpex() error = %v, want ConfigError", err)
	}
}

func TestOpexByYear(t *testing.T) {
	totals := OpexByYear([]models.OpexEntry{
		{Year: 2026, Amount: 10},
		{Year: 2026, Amount: 5},
		{Year: 2027, Amount: 1},
	})
	if totals[2026] != 15 || totals[2027] != 1 || totals[2028] != 0 {
		t.Errorf("OpexByYear() = %v", totals)
	}
}

func TestEnhance(t *testing.T) {
	e := &models.ProductionEnhancement{EORRate: 0.20, EGRRate: 0.25}
	tests := []struct {
		name            string
		enhancement     *models.ProductionEnhancement
		flags           Flags
		wantOil, wantGas float64
	}{
		{name: "EOR only", enhancement: e, flags: Flags{EOR: true}, wantOil: 1200000, wantGas: 500},
		{name: "EGR only", enhancement: e, flags: Flags{EGR: true}, wantOil: 1000000, wantGas: 625},
		{name: "both", enhancement: e, flags: Flags{EOR: true, EGR: true}, wantOil: 1200000, wantGas: 625},
		{name: "no flags", enhancement: e, wantOil: 1000000, wantGas: 500},
		{name: "no enhancement record", flags: Flags{EOR: true, EGR: true}, wantOil: 1000000, wantGas: 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oil, gas := Enhance(1000000, 500, tt.enhancement, tt.flags)
			if math.Abs(oil-tt.wantOil) > 1e-6 || math.Abs(gas-tt.wantGas) > 1e-6 {
				t.Errorf("Enhance() = (%v, %v), want (%v, %v)", oil, gas, tt.wantOil, tt.wantGas)
			}
		})
	}
}

func TestFlagsFor(t *testing.T) {
	flags := FlagsFor([]models.CapexSelection{selection("CCUS_EOR", "CO2 EOR", 1, "1")})
	if !flags.EOR || flags.EGR {
		t.Errorf("FlagsFor() = %+v, want EOR only", flags)
	}
}
