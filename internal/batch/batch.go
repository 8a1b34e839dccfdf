// Package batch calculates many independent scenarios concurrently.
//
// Each scenario runs its full pipeline on one worker; scenarios share no
// state. A scenario that fails validation is reported and skipped without
// stopping the batch. Results come back in input order so that ranking,
// which needs every candidate, can run once the batch completes.
package batch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rewired-gh/psceval/internal/logger"
	"github.com/rewired-gh/psceval/internal/models"
)

var log = logger.Named("batch")

// Calculator computes one scenario.
type Calculator interface {
	Calculate(s *models.Scenario) (*models.Result, error)
}

// Sink receives every successful result, e.g. a result store.
type Sink interface {
	SaveResult(ctx context.Context, r *models.Result) error
}

// ScenarioError is a non-fatal per-scenario failure.
type ScenarioError struct {
	ScenarioID string
	Err        error
}

func (e ScenarioError) Error() string {
	return fmt.Sprintf("scenario %s: %v", e.ScenarioID, e.Err)
}

func (e ScenarioError) Unwrap() error {
	return e.Err
}

// Progress is reported after each scenario finishes.
type Progress struct {
	Done       int
	Total      int
	ScenarioID string
	Err        error
}

// Report is the outcome of a batch.
type Report struct {
	Results []*models.Result // successful results, input order
	Errors  []ScenarioError
}

// Metrics returns the metrics of every successful result.
func (r *Report) Metrics() []models.ScenarioMetrics {
	out := make([]models.ScenarioMetrics, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Metrics
	}
	return out
}

// Runner fans scenarios out to a bounded worker pool.
type Runner struct {
	calc     Calculator
	workers  int
	sink     Sink
	progress func(Progress)
}

// Option configures a Runner.
type Option func(*Runner)

// WithSink persists each result as it completes.
func WithSink(s Sink) Option {
	return func(r *Runner) { r.sink = s }
}

// WithProgress registers a callback invoked once per finished scenario.
// Calls are serialized.
func WithProgress(fn func(Progress)) Option {
	return func(r *Runner) { r.progress = fn }
}

// New creates a Runner with at most workers concurrent calculations.
func New(calc Calculator, workers int, opts ...Option) *Runner {
	if workers < 1 {
		workers = 1
	}
	r := &Runner{calc: calc, workers: workers}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run calculates every scenario. It fails only on duplicate scenario IDs or
// context cancellation; per-scenario failures are collected in the report.
func (r *Runner) Run(ctx context.Context, scenarios []*models.Scenario) (*Report, error) {
	seen := make(map[string]bool, len(scenarios))
	for _, s := range scenarios {
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate scenario id %q in batch", s.ID)
		}
		seen[s.ID] = true
	}

	results := make([]*models.Result, len(scenarios))
	total := len(scenarios)
	var mu sync.Mutex
	var errs []ScenarioError
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, s := range scenarios {
		if gctx.Err() != nil {
			break
		}
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.calc.Calculate(s)
			if err == nil && r.sink != nil {
				if serr := r.sink.SaveResult(gctx, res); serr != nil {
					err = fmt.Errorf("failed to save result: %w", serr)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				log.Warn("Scenario %s failed: %v", s.ID, err)
				errs = append(errs, ScenarioError{ScenarioID: s.ID, Err: err})
			} else {
				results[i] = res
			}
			if r.progress != nil {
				r.progress(Progress{Done: done, Total: total, ScenarioID: s.ID, Err: err})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Errors: errs}
	for _, res := range results {
		if res != nil {
			report.Results = append(report.Results, res)
		}
	}
	log.Info("Batch complete: %d calculated, %d failed", len(report.Results), len(report.Errors))
	return report, nil
}
