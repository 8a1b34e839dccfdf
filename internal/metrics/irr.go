package metrics

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

const (
	imagTolerance = 1e-9
	newtonSteps   = 20
	newtonEpsilon = 1e-12
)

// IRR returns the rate at which NPV(flows) is zero, or nil when no real
// rate above -100% exists. When several rates qualify, the one closest to
// zero is returned.
//
// Substituting x = 1/(1+r) turns the NPV equation into a polynomial in x
// whose positive real roots map back to candidate rates. The roots are the
// eigenvalues of the polynomial's companion matrix.
func IRR(flows []float64) *float64 {
	if !hasSignChange(flows) {
		return nil
	}

	// p(x) = flows[0] + flows[1]·x + ... ; NPV(r) = x·p(x).
	lo, hi := 0, len(flows)-1
	for lo <= hi && flows[lo] == 0 {
		lo++
	}
	for hi >= lo && flows[hi] == 0 {
		hi--
	}
	coeffs := flows[lo : hi+1]
	degree := len(coeffs) - 1
	if degree < 1 {
		return nil
	}

	roots, ok := polyRoots(coeffs)
	if !ok {
		return nil
	}

	var best *float64
	for _, root := range roots {
		x := real(root)
		if math.Abs(imag(root)) > imagTolerance*math.Max(1, cmplx.Abs(root)) || x <= 0 {
			continue
		}
		r := refine(flows, 1/x-1)
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= -1 {
			continue
		}
		if best == nil || math.Abs(r) < math.Abs(*best) {
			v := r
			best = &v
		}
	}
	return best
}

// polyRoots finds the complex roots of c[0] + c[1]x + ... + c[n]x^n.
func polyRoots(c []float64) ([]complex128, bool) {
	n := len(c) - 1
	lead := c[n]
	companion := mat.NewDense(n, n, nil)
	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}
	for i := 0; i < n; i++ {
		companion.Set(i, n-1, -c[i]/lead)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, false
	}
	return eig.Values(nil), true
}

// refine polishes an eigenvalue-derived rate with Newton steps on NPV.
func refine(flows []float64, r float64) float64 {
	for i := 0; i < newtonSteps; i++ {
		f, df := npvAndDerivative(r, flows)
		if df == 0 {
			break
		}
		next := r - f/df
		if next <= -1 || math.IsNaN(next) {
			break
		}
		if math.Abs(next-r) < newtonEpsilon {
			return next
		}
		r = next
	}
	return r
}

func npvAndDerivative(rate float64, flows []float64) (float64, float64) {
	f, df := 0.0, 0.0
	for i, cf := range flows {
		t := float64(i + 1)
		d := math.Pow(1+rate, t)
		f += cf / d
		df -= t * cf / (d * (1 + rate))
	}
	return f, df
}

func hasSignChange(flows []float64) bool {
	pos, neg := false, false
	for _, cf := range flows {
		if cf > 0 {
			pos = true
		} else if cf < 0 {
			neg = true
		}
	}
	return pos && neg
}
