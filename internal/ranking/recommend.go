package ranking

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rewired-gh/psceval/internal/models"
)

const (
	capitalIntensiveRatio = 5.0 // CAPEX/OPEX above this reads as capital intensive
	strongRevenueRatio    = 3.0 // revenue/CAPEX above this is called out
)

// Recommend explains why the top entry of a ranking was chosen. It returns
// nil for an empty ranking. discountRate is quoted in the NPV reason.
func Recommend(ranked []models.RankedScenario, discountRate float64) *models.Recommendation {
	if len(ranked) == 0 {
		return nil
	}
	best := ranked[0]
	m := best.Metrics

	var reasons []string
	if m.NPV > 0 {
		reasons = append(reasons, fmt.Sprintf("Positive NPV of %s, profitable at a %s%% discount rate.",
			money(m.NPV), humanize.FtoaWithDigits(discountRate*100, 2)))
	} else {
		reasons = append(reasons, fmt.Sprintf("Warning: negative NPV of %s, the project may not be profitable.", money(m.NPV)))
	}

	contractorPct := 0.0
	if m.TotalRevenue > 0 {
		contractorPct = m.TotalContractorShare / m.TotalRevenue * 100
	}
	reasons = append(reasons, fmt.Sprintf("Contractor share reaches %s (%.2f%% of total revenue).", money(m.TotalContractorShare), contractorPct))

	capexOpex := 0.0
	if m.TotalOpex > 0 {
		capexOpex = m.TotalCapex / m.TotalOpex
	}
	if capexOpex > capitalIntensiveRatio {
		reasons = append(reasons, fmt.Sprintf("CAPEX is high (%s) relative to OPEX, a capital-intensive investment.", money(m.TotalCapex)))
	} else {
		reasons = append(reasons, fmt.Sprintf("CAPEX/OPEX ratio is balanced at %.2fx.", capexOpex))
	}

	if m.TotalCapex > 0 {
		if ratio := m.TotalRevenue / m.TotalCapex; ratio > strongRevenueRatio {
			reasons = append(reasons, fmt.Sprintf("Excellent revenue generation: %s revenue from %s CAPEX (ratio %.2fx).",
				money(m.TotalRevenue), money(m.TotalCapex), ratio))
		}
	}

	return &models.Recommendation{
		ScenarioID:   m.ScenarioID,
		ScenarioName: m.ScenarioName,
		Score:        best.TotalScore,
		Reasons:      reasons,
		Summary:      fmt.Sprintf("Scenario '%s' is recommended as the best option with a score of %.2f/100.", m.ScenarioName, best.TotalScore),
	}
}

// Summarize aggregates headline metrics across a candidate set.
func Summarize(metrics []models.ScenarioMetrics) models.SummaryStats {
	stats := models.SummaryStats{Count: len(metrics)}
	if len(metrics) == 0 {
		return stats
	}
	stats.MaxNPV = metrics[0].NPV
	stats.MinNPV = metrics[0].NPV
	var npv, capex, revenue float64
	for _, m := range metrics {
		npv += m.NPV
		capex += m.TotalCapex
		revenue += m.TotalRevenue
		if m.NPV > stats.MaxNPV {
			stats.MaxNPV = m.NPV
		}
		if m.NPV < stats.MinNPV {
			stats.MinNPV = m.NPV
		}
		if m.NPV > 0 {
			stats.PositiveNPVs++
		}
	}
	n := float64(len(metrics))
	stats.AvgNPV = npv / n
	stats.AvgCapex = capex / n
	stats.AvgRevenue = revenue / n
	return stats
}

func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 2)
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}
