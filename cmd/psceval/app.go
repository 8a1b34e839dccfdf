package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rewired-gh/psceval/internal/batch"
	"github.com/rewired-gh/psceval/internal/catalog"
	"github.com/rewired-gh/psceval/internal/engine"
	"github.com/rewired-gh/psceval/internal/logger"
	"github.com/rewired-gh/psceval/internal/metrics"
	"github.com/rewired-gh/psceval/internal/models"
	"github.com/rewired-gh/psceval/internal/storage"
)

// app wires the configured components for one command invocation.
type app struct {
	repo   *catalog.Repository
	engine *engine.Engine
	store  *storage.Storage
}

func newApp(ctx context.Context, withStore bool) (*app, error) {
	method, err := metrics.ParsePaybackMethod(cfg.Engine.PaybackMethod)
	if err != nil {
		return nil, err
	}
	a := &app{
		repo:   catalog.NewRepository(cfg.Catalog.Path, cfg.Catalog.CacheTTL),
		engine: engine.New(method),
	}
	if withStore {
		a.store, err = storage.New(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		logger.Debug("Using %s result store", a.store.Driver())
	}
	return a, nil
}

func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logger.Error("Failed to close storage: %v", err)
	}
}

// resolve loads a scenarios file and resolves it against the catalog.
func (a *app) resolve(path string) ([]*models.Scenario, error) {
	specs, err := catalog.LoadScenarios(path)
	if err != nil {
		return nil, err
	}
	cat, err := a.repo.Catalog()
	if err != nil {
		return nil, err
	}
	return cat.ResolveAll(specs)
}

// calculate runs scenarios through the worker pool, persisting results
// when a store is open.
func (a *app) calculate(ctx context.Context, scenarios []*models.Scenario) (*batch.Report, error) {
	var opts []batch.Option
	if a.store != nil {
		opts = append(opts, batch.WithSink(a.store))
	}
	opts = append(opts, batch.WithProgress(func(p batch.Progress) {
		logger.Debug("Progress %d/%d: scenario %s", p.Done, p.Total, p.ScenarioID)
	}))
	return batch.New(a.engine, cfg.Engine.Workers, opts...).Run(ctx, scenarios)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
