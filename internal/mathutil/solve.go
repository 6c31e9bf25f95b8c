package mathutil

// SolveBisection finds a root of f on the interval [lo, hi] by bisection,
// narrowing the bracket until it is smaller than tol. It assumes f is
// increasing through the root (f(lo) < 0 < f(hi)); if the root is not
// bracketed the returned value converges to one endpoint. The root estimate
// and the residual f(root) are returned.
func SolveBisection(f func(float64) float64, lo, hi, tol float64) (float64, float64) {
	x := (lo + hi) / 2

	// The iteration cap guards against a tolerance below the floating-point
	// resolution of the bracket.
	for i := 0; i < 200 && hi-lo > tol; i++ {
		x = (lo + hi) / 2
		if f(x) < 0 {
			lo = x
		} else {
			hi = x
		}
	}

	return x, f(x)
}
