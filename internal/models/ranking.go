package models

import "time"

// ScoreBreakdown holds the normalized [0,1] criterion scores of a scenario.
type ScoreBreakdown struct {
	NPV        float64 `json:"npv"`
	Contractor float64 `json:"contractor"`
	IRR        float64 `json:"irr"`
	Payback    float64 `json:"payback"`
	Capex      float64 `json:"capex"`
	Opex       float64 `json:"opex"`
}

// RankedScenario is a scenario's position in a comparison.
type RankedScenario struct {
	Rank       int             `json:"rank"`
	TotalScore float64         `json:"total_score"` // 0-100
	Scores     ScoreBreakdown  `json:"scores"`
	Metrics    ScenarioMetrics `json:"metrics"`
}

// Recommendation explains the top-ranked scenario in plain language.
type Recommendation struct {
	ScenarioID   string   `json:"scenario_id"`
	ScenarioName string   `json:"scenario_name"`
	Score        float64  `json:"score"`
	Reasons      []string `json:"reasons"`
	Summary      string   `json:"summary"`
}

// SummaryStats aggregates headline metrics across compared scenarios.
type SummaryStats struct {
	Count        int     `json:"count"`
	AvgNPV       float64 `json:"avg_npv"`
	MaxNPV       float64 `json:"max_npv"`
	MinNPV       float64 `json:"min_npv"`
	AvgCapex     float64 `json:"avg_capex"`
	AvgRevenue   float64 `json:"avg_revenue"`
	PositiveNPVs int     `json:"positive_npvs"`
}

// Comparison is a saved ranking of scenarios.
type Comparison struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	Entries     []RankedScenario `json:"entries"`
}
