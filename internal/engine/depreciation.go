package engine

import "math"

// DecliningBalance returns the depreciation charged in period t (1-based)
// for capital cost using the declining-balance method with rate factor/life.
// Book value never drops below salvage and no period is negative.
func DecliningBalance(cost, salvage float64, life int, factor float64, t int) float64 {
	if t < 1 || t > life {
		return 0
	}
	return DepreciationSchedule(cost, salvage, life, factor)[t-1]
}

// DepreciationSchedule returns depreciation for periods 1..life.
func DepreciationSchedule(cost, salvage float64, life int, factor float64) []float64 {
	if life < 1 {
		return nil
	}
	rate := factor / float64(life)
	schedule := make([]float64, life)
	accumulated := 0.0
	for i := 0; i < life; i++ {
		d := (cost - accumulated) * rate
		if cost-accumulated-d < salvage {
			d = cost - accumulated - salvage
		}
		d = math.Max(0, d)
		schedule[i] = d
		accumulated += d
	}
	return schedule
}
