package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rewired-gh/psceval/internal/batch"
	"github.com/rewired-gh/psceval/internal/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

// money formats a dollar amount with thousands separators and no cents.
func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.Commaf(float64(int64(-v+0.5)))
	}
	return "$" + humanize.Commaf(float64(int64(v+0.5)))
}

func percent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

func years(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// printMetrics displays per-scenario headline metrics
func printMetrics(w io.Writer, ms []models.ScenarioMetrics) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "No scenarios calculated.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNPV\tIRR\tPayback (yrs)\tCAPEX\tOPEX\tRevenue\tContractor\tGovernment\t")
	for _, m := range ms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			m.ScenarioID, money(m.NPV), percent(m.IRR), years(m.PaybackYears), money(m.TotalCapex),
			money(m.TotalOpex), money(m.TotalRevenue), money(m.TotalContractorShare), money(m.TotalGovernmentTake))
	}
	tw.Flush()
}

// printErrors lists scenarios that were skipped
func printErrors(w io.Writer, errs []batch.ScenarioError) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d scenario(s) skipped:\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "  %s: %v\n", e.ScenarioID, e.Err)
	}
}

// printOpex displays an OPEX breakdown followed by yearly totals
func printOpex(w io.Writer, s *models.Scenario, entries []models.OpexEntry) {
	fmt.Fprintf(w, "OPEX for %s\n\n", s.DisplayName())
	if len(entries) == 0 {
		fmt.Fprintln(w, "No OPEX rules apply.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Year\tItem\tAmount\tBasis")
	totals := make(map[int]float64)
	var order []int
	var grand float64
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Year, e.Name, money(e.Amount), e.Note)
		if _, ok := totals[e.Year]; !ok {
			order = append(order, e.Year)
		}
		totals[e.Year] += e.Amount
		grand += e.Amount
	}
	tw.Flush()

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "Year\tTotal OPEX\t")
	for _, y := range order {
		fmt.Fprintf(tw, "%d\t%s\t\n", y, money(totals[y]))
	}
	fmt.Fprintf(tw, "All\t%s\t\n", money(grand))
	tw.Flush()
}

// printRanking displays ranked scenarios; total is the size of the full ranking
func printRanking(w io.Writer, ranked []models.RankedScenario, total int) {
	fmt.Fprintf(w, "Ranking (showing %d of %d)\n", len(ranked), total)
	fmt.Fprintln(w, strings.Repeat("-", 80))
	tw := newTable(w)
	fmt.Fprintln(tw, "Rank\tScore\tID\tNPV\tIRR\tPayback\tCAPEX\tOPEX\t")
	for _, r := range ranked {
		m := r.Metrics
		fmt.Fprintf(tw, "%d\t%.2f\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Rank, r.TotalScore, m.ScenarioID, money(m.NPV), percent(m.IRR), years(m.PaybackYears),
			money(m.TotalCapex), money(m.TotalOpex))
	}
	tw.Flush()
	for _, r := range ranked {
		fmt.Fprintf(w, "  %d. %s\n", r.Rank, truncate(r.Metrics.ScenarioName, 76))
	}
}

// printSummary displays aggregate statistics
func printSummary(w io.Writer, s models.SummaryStats) {
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "  Scenarios: %d (%d with positive NPV)\n", s.Count, s.PositiveNPVs)
	fmt.Fprintf(w, "  NPV: avg %s, max %s, min %s\n", money(s.AvgNPV), money(s.MaxNPV), money(s.MinNPV))
	fmt.Fprintf(w, "  Avg CAPEX: %s  Avg revenue: %s\n", money(s.AvgCapex), money(s.AvgRevenue))
}

// printRecommendation displays the recommended scenario and its reasons
func printRecommendation(w io.Writer, rec *models.Recommendation) {
	if rec == nil {
		return
	}
	fmt.Fprintln(w, "\nRECOMMENDATION:")
	fmt.Fprintf(w, "  %s\n", rec.Summary)
	for _, reason := range rec.Reasons {
		fmt.Fprintf(w, "   - %s\n", reason)
	}
}

// printCategory displays one catalog category
func printCategory(w io.Writer, code, name string, items []models.CapexItem) {
	fmt.Fprintf(w, "\n%s (%s)\n", name, code)
	if len(items) == 0 {
		fmt.Fprintln(w, "  (no items)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, it := range items {
		qty := ""
		if it.DefaultQuantity > 0 {
			qty = fmt.Sprintf("default %s %s", humanize.Ftoa(it.DefaultQuantity), it.Unit)
		}
		fmt.Fprintf(tw, "  %s\t%s\t$%s / %s\t%s\n", it.Code, it.Name, humanize.Commaf(it.UnitCost.InexactFloat64()), it.Unit, qty)
	}
	tw.Flush()
}

// printComparisons lists saved comparisons
func printComparisons(w io.Writer, list []models.Comparison) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No saved comparisons.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tCreated")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s (%s)\n", c.ID, c.Name, c.CreatedAt.Format(time.DateTime), humanize.Time(c.CreatedAt))
	}
	tw.Flush()
}
