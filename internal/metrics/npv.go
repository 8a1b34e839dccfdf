// Package metrics reduces an annual cash-flow series to investment metrics:
// net present value, internal rate of return and payback period.
//
// Cash flows are indexed by horizon position, so the first element is
// discounted one full period (t = 1). Years without production are absent
// from the series and do not consume a discount period.
package metrics

import "math"

// NPV discounts flows at rate, the first flow at t = 1.
func NPV(rate float64, flows []float64) float64 {
	npv := 0.0
	for i, cf := range flows {
		npv += cf * DiscountFactor(rate, i+1)
	}
	return npv
}

// DiscountFactor is 1 / (1+rate)^period.
func DiscountFactor(rate float64, period int) float64 {
	return 1 / math.Pow(1+rate, float64(period))
}

// Cumulative returns the running sum of flows.
func Cumulative(flows []float64) []float64 {
	out := make([]float64, len(flows))
	sum := 0.0
	for i, cf := range flows {
		sum += cf
		out[i] = sum
	}
	return out
}
