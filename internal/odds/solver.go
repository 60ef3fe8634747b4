package odds

import "math"

const (
	// DefaultTolerance bounds both the bracket width and the residual of a root-find.
	DefaultTolerance = 1e-10
	// DefaultMaxIterations bounds bracket expansion and bisection separately.
	DefaultMaxIterations = 100

	// shinUpper keeps z strictly below 1 where the Shin terms are undefined.
	shinUpper = 1 - 1e-9
)

// Solver holds the numerical bounds for the power and Shin root-finds.
type Solver struct {
	Tolerance     float64
	MaxIterations int
}

// DefaultSolver returns a solver with DefaultTolerance and DefaultMaxIterations.
func DefaultSolver() Solver {
	return Solver{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

func (s Solver) tolerance() float64 {
	if s.Tolerance <= 0 {
		return DefaultTolerance
	}
	return s.Tolerance
}

func (s Solver) maxIterations() int {
	if s.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return s.MaxIterations
}

// bisect finds the root of a decreasing f on [lo, hi] with f(lo) > 0 > f(hi).
func (s Solver) bisect(method Method, f func(float64) float64, lo, hi float64) (float64, error) {
	tol := s.tolerance()
	residual := math.NaN()
	for i := 0; i < s.maxIterations(); i++ {
		mid := (lo + hi) / 2
		residual = f(mid)
		if math.Abs(residual) < tol || (hi-lo)/2 < tol {
			return mid, nil
		}
		if residual > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0, NewConvergenceError(method, s.maxIterations(), residual)
}

// expandUp doubles hi from start until f(hi) < 0.
func (s Solver) expandUp(method Method, f func(float64) float64, start float64) (float64, error) {
	hi := start
	for i := 0; i < s.maxIterations(); i++ {
		if f(hi) < 0 {
			return hi, nil
		}
		hi *= 2
	}
	return 0, NewConvergenceError(method, s.maxIterations(), f(hi))
}

// expandDown moves lo from start through -1, -2, -4, ... until f(lo) > 0.
func (s Solver) expandDown(method Method, f func(float64) float64, start float64) (float64, error) {
	lo := start
	for i := 0; i < s.maxIterations(); i++ {
		if f(lo) > 0 {
			return lo, nil
		}
		if lo >= 0 {
			lo = -1
		} else {
			lo *= 2
		}
	}
	return 0, NewConvergenceError(method, s.maxIterations(), f(lo))
}
