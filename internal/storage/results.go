package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rewired-gh/psceval/internal/models"
)

const resultColumns = `scenario_id, year, period, oil_production, gas_production_mmscf, gas_production_mmbtu,
	oil_revenue, gas_revenue, total_revenue, capex, opex, depreciation, asr, total_cost_recoverable,
	available_for_split, split_applied, contractor_pretax, contractor_tax, contractor_aftertax,
	government_pretax, government_total, cash_flow, cumulative_cash_flow`

const metricsColumns = `scenario_id, scenario_name, run_id, total_capex, total_opex, total_revenue,
	total_contractor_share, total_government_take, total_contractor_tax, asr_amount, npv, irr,
	payback_years, calculated_at`

// SaveResult replaces everything stored for the result's scenario.
func (s *Storage) SaveResult(ctx context.Context, r *models.Result) error {
	if r == nil || r.ScenarioID == "" {
		return fmt.Errorf("result has no scenario id")
	}
	unlock := s.lockScenario(r.ScenarioID)
	defer unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.deleteResult(ctx, tx, r.ScenarioID); err != nil {
			return err
		}

		opexStmt, err := tx.PrepareContext(ctx, s.rebind(
			`INSERT INTO scenario_opex (scenario_id, seq, code, name, year, amount, note) VALUES (?, ?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return fmt.Errorf("failed to prepare opex insert: %w", err)
		}
		defer opexStmt.Close()
		for i, e := range r.Opex {
			if _, err := opexStmt.ExecContext(ctx, r.ScenarioID, i, e.Code, e.Name, e.Year, e.Amount, e.Note); err != nil {
				return fmt.Errorf("failed to insert opex for scenario %s: %w", r.ScenarioID, err)
			}
		}

		yearStmt, err := tx.PrepareContext(ctx, s.rebind(
			`INSERT INTO scenario_results (`+resultColumns+`) VALUES (`+placeholders(23)+`)`))
		if err != nil {
			return fmt.Errorf("failed to prepare result insert: %w", err)
		}
		defer yearStmt.Close()
		for _, y := range r.Years {
			_, err := yearStmt.ExecContext(ctx, r.ScenarioID, y.Year, y.Period, y.OilProduction, y.GasProductionMMSCF,
				y.GasProductionMMBTU, y.OilRevenue, y.GasRevenue, y.TotalRevenue, y.Capex, y.Opex, y.Depreciation,
				y.ASR, y.TotalCostRecoverable, y.AvailableForSplit, boolToInt(y.SplitApplied), y.ContractorPretax,
				y.ContractorTax, y.ContractorAftertax, y.GovernmentPretax, y.GovernmentTotal, y.CashFlow,
				y.CumulativeCashFlow)
			if err != nil {
				return fmt.Errorf("failed to insert %d result for scenario %s: %w", y.Year, r.ScenarioID, err)
			}
		}

		m := r.Metrics
		_, err = tx.ExecContext(ctx, s.rebind(`INSERT INTO scenario_metrics (`+metricsColumns+`) VALUES (`+placeholders(14)+`)`),
			r.ScenarioID, m.ScenarioName, m.RunID, m.TotalCapex, m.TotalOpex, m.TotalRevenue, m.TotalContractorShare,
			m.TotalGovernmentTake, m.TotalContractorTax, m.ASRAmount, m.NPV, nullFloat(m.IRR),
			nullFloat(m.PaybackYears), formatTime(m.CalculatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert metrics for scenario %s: %w", r.ScenarioID, err)
		}
		log.Debug("Saved scenario %s: %d opex entries, %d years", r.ScenarioID, len(r.Opex), len(r.Years))
		return nil
	})
}

// DeleteResult removes a scenario's stored result. Missing scenarios are not an error.
func (s *Storage) DeleteResult(ctx context.Context, scenarioID string) error {
	unlock := s.lockScenario(scenarioID)
	defer unlock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteResult(ctx, tx, scenarioID)
	})
}

func (s *Storage) deleteResult(ctx context.Context, tx *sql.Tx, scenarioID string) error {
	for _, table := range []string{"scenario_opex", "scenario_results", "scenario_metrics"} {
		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM `+table+` WHERE scenario_id = ?`), scenarioID); err != nil {
			return fmt.Errorf("failed to clear %s for scenario %s: %w", table, scenarioID, err)
		}
	}
	return nil
}

// GetResult loads a scenario's full result.
func (s *Storage) GetResult(ctx context.Context, scenarioID string) (*models.Result, error) {
	metrics, err := s.GetMetrics(ctx, []string{scenarioID})
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("scenario %s: %w", scenarioID, ErrNotFound)
	}
	r := &models.Result{ScenarioID: scenarioID, Metrics: metrics[0]}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT code, name, year, amount, note FROM scenario_opex WHERE scenario_id = ? ORDER BY seq`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query opex: %w", err)
	}
	for rows.Next() {
		var e models.OpexEntry
		if err := rows.Scan(&e.Code, &e.Name, &e.Year, &e.Amount, &e.Note); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan opex: %w", err)
		}
		r.Opex = append(r.Opex, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, s.rebind(
		`SELECT `+resultColumns+` FROM scenario_results WHERE scenario_id = ? ORDER BY year`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var y models.AnnualResult
		var id string
		var split int
		err := rows.Scan(&id, &y.Year, &y.Period, &y.OilProduction, &y.GasProductionMMSCF, &y.GasProductionMMBTU,
			&y.OilRevenue, &y.GasRevenue, &y.TotalRevenue, &y.Capex, &y.Opex, &y.Depreciation, &y.ASR,
			&y.TotalCostRecoverable, &y.AvailableForSplit, &split, &y.ContractorPretax, &y.ContractorTax,
			&y.ContractorAftertax, &y.GovernmentPretax, &y.GovernmentTotal, &y.CashFlow, &y.CumulativeCashFlow)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		y.SplitApplied = split != 0
		r.Years = append(r.Years, y)
	}
	return r, rows.Err()
}

// GetMetrics returns metrics for the given scenario IDs, or for every stored
// scenario when ids is empty. Unknown IDs are skipped. Rows come back in the
// order of ids, or by scenario ID when listing everything.
func (s *Storage) GetMetrics(ctx context.Context, ids []string) ([]models.ScenarioMetrics, error) {
	query := `SELECT ` + metricsColumns + ` FROM scenario_metrics`
	args := make([]interface{}, 0, len(ids))
	if len(ids) > 0 {
		query += ` WHERE scenario_id IN (` + placeholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	query += ` ORDER BY scenario_id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]models.ScenarioMetrics)
	var all []models.ScenarioMetrics
	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, err
		}
		byID[m.ScenarioID] = m
		all = append(all, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return all, nil
	}

	ordered := make([]models.ScenarioMetrics, 0, len(byID))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok && !seen[id] {
			ordered = append(ordered, m)
			seen[id] = true
		}
	}
	return ordered, nil
}

func scanMetrics(rows *sql.Rows) (models.ScenarioMetrics, error) {
	var m models.ScenarioMetrics
	var irr, payback sql.NullFloat64
	var calculatedAt string
	err := rows.Scan(&m.ScenarioID, &m.ScenarioName, &m.RunID, &m.TotalCapex, &m.TotalOpex, &m.TotalRevenue,
		&m.TotalContractorShare, &m.TotalGovernmentTake, &m.TotalContractorTax, &m.ASRAmount, &m.NPV,
		&irr, &payback, &calculatedAt)
	if err != nil {
		return m, fmt.Errorf("failed to scan metrics: %w", err)
	}
	m.IRR = floatPtr(irr)
	m.PaybackYears = floatPtr(payback)
	if m.CalculatedAt, err = parseTime(calculatedAt); err != nil {
		return m, err
	}
	return m, nil
}

// HasResult reports whether a scenario has a stored result.
func (s *Storage) HasResult(ctx context.Context, scenarioID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM scenario_metrics WHERE scenario_id = ?`), scenarioID).Scan(&n)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to check scenario %s: %w", scenarioID, err)
	}
	return n > 0, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
