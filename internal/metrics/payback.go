package metrics

import (
	"fmt"
	"strings"
)

// PaybackMethod selects the fractional-year interpolation used by Payback.
type PaybackMethod string

const (
	// PaybackCumulative interpolates with the cumulative balance of the
	// recovery year: T + (-cum[T-1] / cum[T]).
	PaybackCumulative PaybackMethod = "cumulative"
	// PaybackAnnual interpolates with the recovery year's own cash flow:
	// T - (-cum[T-1] / cf[T]).
	PaybackAnnual PaybackMethod = "annual"
)

// ParsePaybackMethod maps a config string to a PaybackMethod.
func ParsePaybackMethod(s string) (PaybackMethod, error) {
	switch m := PaybackMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaybackCumulative, PaybackAnnual:
		return m, nil
	case "":
		return PaybackCumulative, nil
	default:
		return "", fmt.Errorf("unknown payback method %q (want %q or %q)", s, PaybackCumulative, PaybackAnnual)
	}
}

// Payback returns the years until cumulative cash flow first reaches zero,
// or nil if it never does.
func Payback(flows []float64, method PaybackMethod) *float64 {
	cum := Cumulative(flows)
	for i := range cum {
		if cum[i] < 0 {
			continue
		}
		years := float64(i + 1)
		if i == 0 {
			years = 1.0
			return &years
		}
		prev := cum[i-1]
		switch method {
		case PaybackAnnual:
			if flows[i] > 0 {
				years -= -prev / flows[i]
			}
		default:
			if cum[i] != prev && cum[i] != 0 {
				years += -prev / cum[i]
			}
		}
		return &years
	}
	return nil
}
