// Package ranking scores calculated scenarios against each other and orders
// them from best to worst.
//
// Each of six criteria is min-max normalized across the candidate set and
// the composite score is a weighted sum on a 0-100 scale:
//
//	score = 100 × (0.30·npv + 0.25·contractor + 0.15·irr + 0.10·payback + 0.10·capex + 0.10·opex)
//
// NPV, contractor take and IRR are higher-is-better; payback, CAPEX and OPEX
// are lower-is-better. A criterion on which every candidate ties scores 1.0
// for all of them. Scoring needs the complete candidate set, so it runs only
// after every scenario has been calculated.
package ranking

import (
	"sort"

	"github.com/rewired-gh/psceval/internal/models"
)

// Weights are the criterion weights of the composite score. They sum to 1.
type Weights struct {
	NPV        float64
	Contractor float64
	IRR        float64
	Payback    float64
	Capex      float64
	Opex       float64
}

// DefaultWeights is the fixed weighting used for every comparison.
var DefaultWeights = Weights{
	NPV:        0.30,
	Contractor: 0.25,
	IRR:        0.15,
	Payback:    0.10,
	Capex:      0.10,
	Opex:       0.10,
}

const (
	// irrCap limits IRR to 100% for scoring. An undefined IRR is scored as the cap.
	irrCap = 1.0
	// paybackSentinel fills undefined payback when no candidate pays back.
	paybackSentinel = 99.0
)

// Rank scores every scenario and returns them sorted by descending total
// score with ranks 1..N. Equal scores keep their input order.
func Rank(metrics []models.ScenarioMetrics) []models.RankedScenario {
	n := len(metrics)
	if n == 0 {
		return []models.RankedScenario{}
	}

	npv := make([]float64, n)
	contractor := make([]float64, n)
	irr := make([]float64, n)
	payback := make([]float64, n)
	capex := make([]float64, n)
	opex := make([]float64, n)

	fill := worstPayback(metrics)
	for i, m := range metrics {
		npv[i] = m.NPV
		contractor[i] = m.TotalContractorShare
		irr[i] = scoringIRR(m.IRR)
		if m.PaybackYears != nil {
			payback[i] = *m.PaybackYears
		} else {
			payback[i] = fill
		}
		capex[i] = m.TotalCapex
		opex[i] = m.TotalOpex
	}

	npvScores := normalize(npv, true)
	contractorScores := normalize(contractor, true)
	irrScores := normalize(irr, true)
	paybackScores := normalize(payback, false)
	capexScores := normalize(capex, false)
	opexScores := normalize(opex, false)

	w := DefaultWeights
	ranked := make([]models.RankedScenario, n)
	for i := range metrics {
		s := models.ScoreBreakdown{
			NPV:        npvScores[i],
			Contractor: contractorScores[i],
			IRR:        irrScores[i],
			Payback:    paybackScores[i],
			Capex:      capexScores[i],
			Opex:       opexScores[i],
		}
		ranked[i] = models.RankedScenario{
			TotalScore: 100 * (w.NPV*s.NPV + w.Contractor*s.Contractor + w.IRR*s.IRR +
				w.Payback*s.Payback + w.Capex*s.Capex + w.Opex*s.Opex),
			Scores:  s,
			Metrics: metrics[i],
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// TopK returns at most k leading entries of a ranking.
func TopK(ranked []models.RankedScenario, k int) []models.RankedScenario {
	if k <= 0 || len(ranked) == 0 {
		return []models.RankedScenario{}
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// scoringIRR maps an IRR onto [0, irrCap] for normalization.
func scoringIRR(irr *float64) float64 {
	switch {
	case irr == nil:
		return irrCap
	case *irr <= 0:
		return 0
	case *irr > irrCap:
		return irrCap
	default:
		return *irr
	}
}

// worstPayback is the largest defined payback, or the sentinel if none is defined.
func worstPayback(metrics []models.ScenarioMetrics) float64 {
	worst, found := 0.0, false
	for _, m := range metrics {
		if m.PaybackYears == nil {
			continue
		}
		if !found || *m.PaybackYears > worst {
			worst = *m.PaybackYears
			found = true
		}
	}
	if !found {
		return paybackSentinel
	}
	return worst
}

// normalize min-max scales values to [0,1]. Lower-is-better criteria are
// inverted. If every value is equal, all score 1.0.
func normalize(values []float64, higherIsBetter bool) []float64 {
	scores := make([]float64, len(values))
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	for i, v := range values {
		switch {
		case hi == lo:
			scores[i] = 1.0
		case higherIsBetter:
			scores[i] = (v - lo) / (hi - lo)
		default:
			scores[i] = 1 - (v-lo)/(hi-lo)
		}
	}
	return scores
}
