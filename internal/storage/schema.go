package storage

// schema is portable between SQLite and PostgreSQL. Timestamps are stored
// as RFC 3339 text and booleans as integers.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS scenario_metrics (
		scenario_id            TEXT PRIMARY KEY,
		scenario_name          TEXT NOT NULL,
		run_id                 TEXT NOT NULL,
		total_capex            DOUBLE PRECISION NOT NULL,
		total_opex             DOUBLE PRECISION NOT NULL,
		total_revenue          DOUBLE PRECISION NOT NULL,
		total_contractor_share DOUBLE PRECISION NOT NULL,
		total_government_take  DOUBLE PRECISION NOT NULL,
		total_contractor_tax   DOUBLE PRECISION NOT NULL,
		asr_amount             DOUBLE PRECISION NOT NULL,
		npv                    DOUBLE PRECISION NOT NULL,
		irr                    DOUBLE PRECISION,
		payback_years          DOUBLE PRECISION,
		calculated_at          TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scenario_results (
		scenario_id            TEXT NOT NULL,
		year                   INTEGER NOT NULL,
		period                 INTEGER NOT NULL,
		oil_production         DOUBLE PRECISION NOT NULL,
		gas_production_mmscf   DOUBLE PRECISION NOT NULL,
		gas_production_mmbtu   DOUBLE PRECISION NOT NULL,
		oil_revenue            DOUBLE PRECISION NOT NULL,
		gas_revenue            DOUBLE PRECISION NOT NULL,
		total_revenue          DOUBLE PRECISION NOT NULL,
		capex                  DOUBLE PRECISION NOT NULL,
		opex                   DOUBLE PRECISION NOT NULL,
		depreciation           DOUBLE PRECISION NOT NULL,
		asr                    DOUBLE PRECISION NOT NULL,
		total_cost_recoverable DOUBLE PRECISION NOT NULL,
		available_for_split    DOUBLE PRECISION NOT NULL,
		split_applied          INTEGER NOT NULL,
		contractor_pretax      DOUBLE PRECISION NOT NULL,
		contractor_tax         DOUBLE PRECISION NOT NULL,
		contractor_aftertax    DOUBLE PRECISION NOT NULL,
		government_pretax      DOUBLE PRECISION NOT NULL,
		government_total       DOUBLE PRECISION NOT NULL,
		cash_flow              DOUBLE PRECISION NOT NULL,
		cumulative_cash_flow   DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (scenario_id, year)
	)`,
	`CREATE TABLE IF NOT EXISTS scenario_opex (
		scenario_id TEXT NOT NULL,
		seq         INTEGER NOT NULL,
		code        TEXT NOT NULL,
		name        TEXT NOT NULL,
		year        INTEGER NOT NULL,
		amount      DOUBLE PRECISION NOT NULL,
		note        TEXT NOT NULL,
		PRIMARY KEY (scenario_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS comparisons (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comparison_scenarios (
		comparison_id TEXT NOT NULL,
		rank_no       INTEGER NOT NULL,
		scenario_id   TEXT NOT NULL,
		total_score   DOUBLE PRECISION NOT NULL,
		entry_json    TEXT NOT NULL,
		PRIMARY KEY (comparison_id, rank_no)
	)`,
}
