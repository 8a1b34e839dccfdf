package engine

import (
	"sort"

	"github.com/rewired-gh/psceval/internal/models"
)

// waterfallInput is everything the per-year loop needs, fully resolved.
type waterfallInput struct {
	fiscal      *models.FiscalTerms
	pricing     *models.PricingAssumptions
	enhancement *models.ProductionEnhancement
	flags       Flags
	production  []models.ProductionYear
	opexByYear  map[int]float64
	totalCapex  float64
	asrAmount   float64
}

// runWaterfall produces one AnnualResult per production year inside the
// horizon, in ascending year order. Years missing from the profile are
// absent from the output.
func runWaterfall(in waterfallInput) []models.AnnualResult {
	f := in.fiscal
	p := in.pricing

	production := make([]models.ProductionYear, len(in.production))
	copy(production, in.production)
	sort.Slice(production, func(i, j int) bool {
		return production[i].Year < production[j].Year
	})

	depreciation := DepreciationSchedule(in.totalCapex, f.SalvageValue, f.DepreciationLife, f.DepreciationFactor)
	results := make([]models.AnnualResult, 0, len(production))
	cumulative := 0.0

	for _, prod := range production {
		if !f.InHorizon(prod.Year) {
			log.Debug("Skipping production year %d outside horizon %d-%d", prod.Year, f.ProjectStartYear, f.ProjectEndYear)
			continue
		}
		period := f.Period(prod.Year)
		finalYear := prod.Year == f.ProjectEndYear

		oilBase := prod.OilRateBOPD * float64(p.WorkingDays)
		gasBase := prod.GasRateMMSCFD * float64(p.WorkingDays)
		oil, gas := Enhance(oilBase, gasBase, in.enhancement, in.flags)
		gasEnergy := gas * p.MMSCFToMMBTU

		r := models.AnnualResult{
			Year:               prod.Year,
			Period:             period,
			OilProduction:      oil,
			GasProductionMMSCF: gas,
			GasProductionMMBTU: gasEnergy,
			OilRevenue:         oil * p.OilPrice,
			GasRevenue:         gasEnergy * p.GasPrice,
			Opex:               in.opexByYear[prod.Year],
		}
		r.TotalRevenue = r.OilRevenue + r.GasRevenue

		// All capital is spent in period 1.
		if period == 1 {
			r.Capex = in.totalCapex
		}
		if period <= len(depreciation) {
			r.Depreciation = depreciation[period-1]
		}
		if finalYear {
			r.ASR = in.asrAmount
		}

		r.TotalCostRecoverable = r.Capex + r.Opex + r.Depreciation + r.ASR
		r.AvailableForSplit = r.TotalRevenue - r.TotalCostRecoverable

		// The final year settles the abandonment reserve and is never split.
		if r.AvailableForSplit > 0 && !finalYear {
			r.SplitApplied = true
			r.ContractorPretax = r.AvailableForSplit * f.ContractorOilPretax
			r.ContractorTax = r.ContractorPretax * f.ContractorTaxRate
			r.ContractorAftertax = r.ContractorPretax - r.ContractorTax
			r.GovernmentPretax = r.AvailableForSplit * f.GovOilPretax
			r.GovernmentTotal = r.GovernmentPretax + r.ContractorTax
		}

		// Depreciation is non-cash and stays out of the cash flow.
		r.CashFlow = r.TotalRevenue - r.Opex - r.Capex - r.ASR
		cumulative += r.CashFlow
		r.CumulativeCashFlow = cumulative

		results = append(results, r)
	}
	return results
}
