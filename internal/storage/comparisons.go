package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/psceval/internal/models"
)

// SaveComparison stores a ranking under a new ID. The ID and creation time
// are filled in when empty.
func (s *Storage) SaveComparison(ctx context.Context, c *models.Comparison) error {
	if c.Name == "" {
		return fmt.Errorf("comparison name must not be empty")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO comparisons (id, name, description, created_at) VALUES (?, ?, ?, ?)`),
			c.ID, c.Name, c.Description, formatTime(c.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert comparison: %w", err)
		}
		for _, e := range c.Entries {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal comparison entry: %w", err)
			}
			_, err = tx.ExecContext(ctx, s.rebind(
				`INSERT INTO comparison_scenarios (comparison_id, rank_no, scenario_id, total_score, entry_json) VALUES (?, ?, ?, ?, ?)`),
				c.ID, e.Rank, e.Metrics.ScenarioID, e.TotalScore, string(data))
			if err != nil {
				return fmt.Errorf("failed to insert comparison entry: %w", err)
			}
		}
		return nil
	})
}

// GetComparison loads a saved comparison with its ranked entries.
func (s *Storage) GetComparison(ctx context.Context, id string) (*models.Comparison, error) {
	c := &models.Comparison{ID: id}
	var createdAt string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT name, description, created_at FROM comparisons WHERE id = ?`), id).
		Scan(&c.Name, &c.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comparison %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT entry_json FROM comparison_scenarios WHERE comparison_id = ? ORDER BY rank_no`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan comparison entry: %w", err)
		}
		var e models.RankedScenario
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("failed to decode comparison entry: %w", err)
		}
		c.Entries = append(c.Entries, e)
	}
	return c, rows.Err()
}

// ListComparisons returns saved comparisons, newest first, without entries.
func (s *Storage) ListComparisons(ctx context.Context) ([]models.Comparison, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM comparisons ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparisons: %w", err)
	}
	defer rows.Close()

	var out []models.Comparison
	for rows.Next() {
		var c models.Comparison
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
