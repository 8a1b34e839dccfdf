package models

import "time"

// AnnualResult is one row of the PSC waterfall.
type AnnualResult struct {
	Year   int `json:"year"`
	Period int `json:"period"` // 1-based position inside the horizon

	OilProduction      float64 `json:"oil_production"`       // bbl, post-uplift
	GasProductionMMSCF float64 `json:"gas_production_mmscf"` // post-uplift
	GasProductionMMBTU float64 `json:"gas_production_mmbtu"`

	OilRevenue   float64 `json:"oil_revenue"`
	GasRevenue   float64 `json:"gas_revenue"`
	TotalRevenue float64 `json:"total_revenue"`

	Capex                float64 `json:"capex"`
	Opex                 float64 `json:"opex"`
	Depreciation         float64 `json:"depreciation"`
	ASR                  float64 `json:"asr"`
	TotalCostRecoverable float64 `json:"total_cost_recoverable"`
	AvailableForSplit    float64 `json:"available_for_split"`
	SplitApplied         bool    `json:"split_applied"`

	ContractorPretax   float64 `json:"contractor_pretax"`
	ContractorTax      float64 `json:"contractor_tax"`
	ContractorAftertax float64 `json:"contractor_aftertax"`
	GovernmentPretax   float64 `json:"government_pretax"`
	GovernmentTotal    float64 `json:"government_total"`

	CashFlow           float64 `json:"cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
}

// ScenarioMetrics is the economic summary of one calculated scenario.
// IRR and PaybackYears are nil when undefined.
type ScenarioMetrics struct {
	ScenarioID   string `json:"scenario_id"`
	ScenarioName string `json:"scenario_name"`
	RunID        string `json:"run_id"` // identifies the calculation that produced these numbers

	TotalCapex           float64 `json:"total_capex"`
	TotalOpex            float64 `json:"total_opex"`
	TotalRevenue         float64 `json:"total_revenue"`
	TotalContractorShare float64 `json:"total_contractor_share"`
	TotalGovernmentTake  float64 `json:"total_government_take"`
	TotalContractorTax   float64 `json:"total_contractor_tax"`
	ASRAmount            float64 `json:"asr_amount"`

	NPV          float64  `json:"npv"`
	IRR          *float64 `json:"irr"`
	PaybackYears *float64 `json:"payback_years"`

	CalculatedAt time.Time `json:"calculated_at"`
}

// Result is everything one calculation produced for a scenario. Persisted
// results are replaced as a whole on recalculation.
type Result struct {
	ScenarioID string          `json:"scenario_id"`
	Opex       []OpexEntry     `json:"opex"`
	Years      []AnnualResult  `json:"years"`
	Metrics    ScenarioMetrics `json:"metrics"`
}

// CashFlows returns the annual cash flows in horizon order.
func (r *Result) CashFlows() []float64 {
	flows := make([]float64, len(r.Years))
	for i := range r.Years {
		flows[i] = r.Years[i].CashFlow
	}
	return flows
}
