package models

import "fmt"

// OpexMethod selects how an OPEX rule derives its base annual amount.
type OpexMethod string

const (
	OpexPercentage   OpexMethod = "PERCENTAGE"     // rate × CAPEX item total cost
	OpexFixed        OpexMethod = "FIXED"          // rate is the annual amount
	OpexFixedPerUnit OpexMethod = "FIXED_PER_UNIT" // rate × CAPEX item quantity
)

// Valid reports whether m is a supported method.
func (m OpexMethod) Valid() bool {
	switch m {
	case OpexPercentage, OpexFixed, OpexFixedPerUnit:
		return true
	}
	return false
}

// OpexRule defines a recurring operating cost tied to a CAPEX item.
type OpexRule struct {
	Code      string     `json:"code" yaml:"code"` // CAPEX item code the rule applies to
	Name      string     `json:"name" yaml:"name"`
	Method    OpexMethod `json:"method" yaml:"method"`
	Rate      float64    `json:"rate" yaml:"rate"`
	YearStart int        `json:"year_start,omitempty" yaml:"year_start,omitempty"` // 1-based period, 0 means 1
	YearEnd   int        `json:"year_end,omitempty" yaml:"year_end,omitempty"`     // 1-based period, 0 means project end
}

// Validate checks a rule's method, rate and period window.
func (r *OpexRule) Validate() error {
	field := fmt.Sprintf("opex_rules[%s]", r.Code)
	if !r.Method.Valid() {
		return configErrorf(field+".method", "unknown method %q", r.Method)
	}
	if r.Rate < 0 {
		return configErrorf(field+".rate", "must not be negative, got %v", r.Rate)
	}
	if r.YearStart < 0 {
		return configErrorf(field+".year_start", "must not be negative, got %d", r.YearStart)
	}
	if r.YearEnd != 0 && r.YearEnd < r.FirstPeriod() {
		return configErrorf(field+".year_end", "%d is before year_start %d", r.YearEnd, r.FirstPeriod())
	}
	return nil
}

// FirstPeriod is the first 1-based period the rule applies to.
func (r *OpexRule) FirstPeriod() int {
	if r.YearStart <= 0 {
		return 1
	}
	return r.YearStart
}

// LastPeriod is the last period the rule applies to. An open-ended rule runs
// to the end of the horizon; an explicit year_end may lie beyond it.
func (r *OpexRule) LastPeriod(horizon int) int {
	if r.YearEnd <= 0 {
		return horizon
	}
	return r.YearEnd
}

// OpexEntry is one generated OPEX line for a single calendar year.
type OpexEntry struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note,omitempty"`
}
