// Package engine runs the PSC economics pipeline for a single scenario:
// OPEX generation, production enhancement, declining-balance depreciation,
// the annual cash-flow waterfall and the derived investment metrics.
//
// A calculation is sequential and side-effect free. Independent scenarios
// share no state and may be calculated concurrently with one Engine.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rewired-gh/psceval/internal/logger"
	"github.com/rewired-gh/psceval/internal/metrics"
	"github.com/rewired-gh/psceval/internal/models"
)

var log = logger.Named("engine")

// Engine calculates scenario results.
type Engine struct {
	payback metrics.PaybackMethod
	now     func() time.Time
}

// New creates an Engine that interpolates payback with the given method.
func New(payback metrics.PaybackMethod) *Engine {
	if payback == "" {
		payback = metrics.PaybackCumulative
	}
	return &Engine{payback: payback, now: time.Now}
}

// PaybackMethod reports the configured payback interpolation.
func (e *Engine) PaybackMethod() metrics.PaybackMethod {
	return e.payback
}

// Calculate validates the scenario and produces its full result set. The
// only error returned is a *models.ConfigError; undefined IRR or payback are
// reported as nil metrics.
func (e *Engine) Calculate(s *models.Scenario) (*models.Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	opex, err := GenerateOpex(s)
	if err != nil {
		return nil, err
	}

	capex := models.TotalCapex(s.Capex)
	asr := capex.Mul(decimal.NewFromFloat(s.Fiscal.ASRRate))

	years := runWaterfall(waterfallInput{
		fiscal:      s.Fiscal,
		pricing:     s.Pricing,
		enhancement: s.Enhancement,
		flags:       FlagsFor(s.Capex),
		production:  s.Production,
		opexByYear:  OpexByYear(opex),
		totalCapex:  capex.InexactFloat64(),
		asrAmount:   asr.InexactFloat64(),
	})

	result := &models.Result{
		ScenarioID: s.ID,
		Opex:       opex,
		Years:      years,
	}
	result.Metrics = e.summarize(s, result, capex.InexactFloat64(), asr.InexactFloat64())

	log.Debug("Calculated scenario %s: %d years, NPV %.2f", s.ID, len(years), result.Metrics.NPV)
	return result, nil
}

// summarize reduces the annual series to scenario metrics. Split totals only
// count years where a positive split was made.
func (e *Engine) summarize(s *models.Scenario, r *models.Result, capex, asr float64) models.ScenarioMetrics {
	m := models.ScenarioMetrics{
		ScenarioID:   s.ID,
		ScenarioName: s.DisplayName(),
		RunID:        uuid.NewString(),
		TotalCapex:   capex,
		ASRAmount:    asr,
		CalculatedAt: e.now(),
	}
	for _, entry := range r.Opex {
		m.TotalOpex += entry.Amount
	}
	for _, y := range r.Years {
		m.TotalRevenue += y.TotalRevenue
		if y.ContractorAftertax > 0 {
			m.TotalContractorShare += y.ContractorAftertax
		}
		if y.GovernmentTotal > 0 {
			m.TotalGovernmentTake += y.GovernmentTotal
		}
		if y.ContractorTax > 0 {
			m.TotalContractorTax += y.ContractorTax
		}
	}

	flows := r.CashFlows()
	m.NPV = metrics.NPV(s.Fiscal.DiscountRate, flows)
	m.IRR = metrics.IRR(flows)
	m.PaybackYears = metrics.Payback(flows, e.payback)
	return m
}
