package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rewired-gh/psceval/internal/models"
)

// GenerateOpex expands the OPEX rules of each selected CAPEX item into one
// entry per (rule, calendar year), in selection order. Rules for items that
// are not selected are ignored. Amounts escalate from the project start year,
// not from the rule's own window start. The result replaces any earlier
// schedule.
func GenerateOpex(s *models.Scenario) ([]models.OpexEntry, error) {
	for i := range s.OpexRules {
		if err := s.OpexRules[i].Validate(); err != nil {
			return nil, err
		}
	}

	f := s.Fiscal
	horizon := f.HorizonYears()
	var entries []models.OpexEntry

	for i := range s.Capex {
		sel := &s.Capex[i]
		itemName := sel.Name
		if itemName == "" {
			itemName = sel.Code
		}

		for j := range s.OpexRules {
			rule := &s.OpexRules[j]
			if !strings.EqualFold(rule.Code, sel.Code) {
				continue
			}
			base, baseNote := opexBase(rule, sel)

			first := f.ProjectStartYear + rule.FirstPeriod() - 1
			last := f.ProjectStartYear + rule.LastPeriod(horizon) - 1
			for year := first; year <= last; year++ {
				offset := year - f.ProjectStartYear
				entries = append(entries, models.OpexEntry{
					Code:   sel.Code,
					Name:   fmt.Sprintf("%s (%s)", rule.Name, itemName),
					Year:   year,
					Amount: base * math.Pow(1+f.OpexEscalationRate, float64(offset)),
					Note:   fmt.Sprintf("%s, escalated %d years at %s%%", baseNote, offset, formatPercent(f.OpexEscalationRate)),
				})
			}
		}
	}
	return entries, nil
}

// opexBase computes the unescalated annual amount and its explanation.
func opexBase(rule *models.OpexRule, sel *models.CapexSelection) (float64, string) {
	switch rule.Method {
	case models.OpexPercentage:
		cost := sel.TotalCost().InexactFloat64()
		return cost * rule.Rate, fmt.Sprintf("%s%% of CAPEX ($%s)", formatPercent(rule.Rate), humanize.CommafWithDigits(cost, 2))
	case models.OpexFixedPerUnit:
		return rule.Rate * sel.Quantity, fmt.Sprintf("Fixed rate $%s × %v units", humanize.CommafWithDigits(rule.Rate, 2), sel.Quantity)
	default:
		// FIXED ignores quantity.
		return rule.Rate, fmt.Sprintf("Fixed rate $%s/year", humanize.CommafWithDigits(rule.Rate, 2))
	}
}

// OpexByYear sums entries per calendar year.
func OpexByYear(entries []models.OpexEntry) map[int]float64 {
	totals := make(map[int]float64)
	for _, e := range entries {
		totals[e.Year] += e.Amount
	}
	return totals
}

func formatPercent(rate float64) string {
	return humanize.FtoaWithDigits(rate*100, 4)
}
