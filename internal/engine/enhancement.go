package engine

import "github.com/rewired-gh/psceval/internal/models"

// Flags records which production uplifts a scenario's CAPEX set enables.
type Flags struct {
	EOR bool
	EGR bool
}

// FlagsFor derives enhancement flags from the typed enhancement on each
// selection. Selections are tagged when the catalog is loaded.
func FlagsFor(selections []models.CapexSelection) Flags {
	return Flags{
		EOR: models.HasEnhancement(selections, models.EnhancementEOR),
		EGR: models.HasEnhancement(selections, models.EnhancementEGR),
	}
}

// Enhance applies the uplift rates to annual base volumes. Each rate touches
// only its own stream; a nil enhancement passes volumes through.
func Enhance(oil, gas float64, e *models.ProductionEnhancement, flags Flags) (float64, float64) {
	if e == nil {
		return oil, gas
	}
	if flags.EOR {
		oil *= 1 + e.EORRate
	}
	if flags.EGR {
		gas *= 1 + e.EGRRate
	}
	return oil, gas
}
