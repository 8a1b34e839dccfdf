package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/psceval/internal/engine"
	"github.com/rewired-gh/psceval/internal/logger"
	"github.com/rewired-gh/psceval/internal/models"
	"github.com/rewired-gh/psceval/internal/ranking"
	"github.com/rewired-gh/psceval/internal/telegram"
)

// --- Calculate Command ---

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate and store every scenario in a scenarios file",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		noSave, _ := cmd.Flags().GetBool("no-save")

		ctx, cancel := signalContext()
		defer cancel()

		a, err := newApp(ctx, !noSave)
		if err != nil {
			return err
		}
		defer a.Close()

		scenarios, err := a.resolve(file)
		if err != nil {
			return err
		}
		report, err := a.calculate(ctx, scenarios)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Payback method: %s\n\n", a.engine.PaybackMethod())
		printMetrics(out, report.Metrics())
		printErrors(out, report.Errors)
		if len(report.Results) == 0 && len(report.Errors) > 0 {
			return fmt.Errorf("all %d scenarios failed", len(report.Errors))
		}
		return nil
	},
}

func init() {
	calculateCmd.Flags().StringP("file", "f", "", "scenarios file (YAML)")
	calculateCmd.Flags().Bool("no-save", false, "do not persist results")
	_ = calculateCmd.MarkFlagRequired("file")
}

// --- OPEX Command ---

var opexCmd = &cobra.Command{
	Use:   "opex",
	Short: "Show the OPEX breakdown of one scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		id, _ := cmd.Flags().GetString("scenario")

		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		scenarios, err := a.resolve(file)
		if err != nil {
			return err
		}

		for _, s := range scenarios {
			if s.ID != id {
				continue
			}
			entries, err := engine.GenerateOpex(s)
			if err != nil {
				return err
			}
			sort.SliceStable(entries, func(i, j int) bool {
				if entries[i].Year != entries[j].Year {
					return entries[i].Year < entries[j].Year
				}
				return entries[i].Name < entries[j].Name
			})
			printOpex(cmd.OutOrStdout(), s, entries)
			return nil
		}
		return fmt.Errorf("scenario %s not found in %s", id, file)
	},
}

func init() {
	opexCmd.Flags().StringP("file", "f", "", "scenarios file (YAML)")
	opexCmd.Flags().StringP("scenario", "s", "", "scenario id")
	_ = opexCmd.MarkFlagRequired("file")
	_ = opexCmd.MarkFlagRequired("scenario")
}

// --- Rank Command ---

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank scenarios and recommend the best one",
	Long: `Rank scenarios by the weighted score of NPV, contractor share, IRR,
payback, CAPEX and OPEX.

With --file the scenarios are calculated first. Otherwise stored results are
ranked: those named by --ids, or every stored scenario.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		ids, _ := cmd.Flags().GetStringSlice("ids")
		saveAs, _ := cmd.Flags().GetString("save")
		description, _ := cmd.Flags().GetString("description")
		notify, _ := cmd.Flags().GetBool("notify")
		topK, _ := cmd.Flags().GetInt("top")
		if topK <= 0 {
			topK = cfg.Ranking.TopK
		}
		if file != "" && len(ids) > 0 {
			return fmt.Errorf("--file and --ids are mutually exclusive")
		}

		ctx, cancel := signalContext()
		defer cancel()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		cat, err := a.repo.Catalog()
		if err != nil {
			return err
		}
		var scenarios []*models.Scenario
		var candidates []models.ScenarioMetrics
		if file != "" {
			scenarios, err = a.resolve(file)
			if err != nil {
				return err
			}
			report, err := a.calculate(ctx, scenarios)
			if err != nil {
				return err
			}
			printErrors(cmd.OutOrStdout(), report.Errors)
			candidates = report.Metrics()
		} else {
			candidates, err = a.store.GetMetrics(ctx, ids)
			if err != nil {
				return err
			}
			if missing := missingIDs(ids, candidates); len(missing) > 0 {
				logger.Warn("No stored results for: %s", strings.Join(missing, ", "))
			}
		}
		if len(candidates) == 0 {
			return fmt.Errorf("no scenarios to rank")
		}

		ranked := ranking.Rank(candidates)
		rec := ranking.Recommend(ranked, discountRateFor(scenarios, ranked[0].Metrics.ScenarioID, cat.Fiscal.DiscountRate))
		summary := ranking.Summarize(candidates)

		out := cmd.OutOrStdout()
		printRanking(out, ranking.TopK(ranked, topK), len(ranked))
		printSummary(out, summary)
		printRecommendation(out, rec)

		if saveAs != "" {
			c := &models.Comparison{Name: saveAs, Description: description, Entries: ranked}
			if err := a.store.SaveComparison(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSaved comparison %q as %s\n", c.Name, c.ID)
		}

		if notify {
			title := saveAs
			if title == "" {
				title = "Scenario Ranking"
			}
			return sendNotification(ctx, telegram.Report{
				Title:          title,
				GeneratedAt:    time.Now(),
				Ranked:         ranking.TopK(ranked, topK),
				Recommendation: rec,
				Summary:        &summary,
			})
		}
		return nil
	},
}

func init() {
	rankCmd.Flags().StringP("file", "f", "", "scenarios file to calculate and rank")
	rankCmd.Flags().StringSlice("ids", nil, "stored scenario ids to rank (default: all stored)")
	rankCmd.Flags().String("save", "", "save the ranking as a named comparison")
	rankCmd.Flags().String("description", "", "description of the saved comparison")
	rankCmd.Flags().Bool("notify", false, "send the ranking to Telegram")
	rankCmd.Flags().Int("top", 0, "rows to show (default: ranking.top_k)")
}

// discountRateFor returns the discount rate of the scenario with the given id,
// or fallback when it was not calculated in this run.
func discountRateFor(scenarios []*models.Scenario, id string, fallback float64) float64 {
	for _, s := range scenarios {
		if s.ID == id && s.Fiscal != nil {
			return s.Fiscal.DiscountRate
		}
	}
	return fallback
}

func missingIDs(ids []string, found []models.ScenarioMetrics) []string {
	have := make(map[string]bool, len(found))
	for _, m := range found {
		have[m.ScenarioID] = true
	}
	var missing []string
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func sendNotification(ctx context.Context, r telegram.Report) error {
	if !cfg.Telegram.Enabled {
		return fmt.Errorf("telegram is not enabled in the configuration")
	}
	client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram client: %w", err)
	}
	if err := client.Send(ctx, r); err != nil {
		return err
	}
	logger.Info("Sent ranking of %d scenarios to Telegram", len(r.Ranked))
	return nil
}

// --- Catalog Command ---

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List CAPEX items grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		cat, err := a.repo.Catalog()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Catalog: %s\n", cat.Source)
		for _, c := range cat.Categories {
			items, err := a.repo.ItemsInCategory(c.Code)
			if err != nil {
				return err
			}
			printCategory(out, c.Code, c.Name, items)
		}
		return nil
	},
}

// --- Comparisons Command ---

var comparisonsCmd = &cobra.Command{
	Use:   "comparisons [id]",
	Short: "List saved comparisons, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			c, err := a.store.GetComparison(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (%s)\n", c.Name, c.CreatedAt.Format(time.DateTime))
			if c.Description != "" {
				fmt.Fprintln(out, c.Description)
			}
			printRanking(out, c.Entries, len(c.Entries))
			return nil
		}

		list, err := a.store.ListComparisons(ctx)
		if err != nil {
			return err
		}
		printComparisons(out, list)
		return nil
	},
}
