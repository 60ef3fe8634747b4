package odds

import (
	"fmt"
	"math"
)

// zeroMargin is the overround below which every method returns its input.
const zeroMargin = 1e-12

// Devig removes margin from raw implied probabilities with the default solver.
func Devig(probs []float64, margin float64, method Method) ([]float64, error) {
	return DefaultSolver().Devig(probs, margin, method)
}

// Devig removes margin from raw implied probabilities (1/odds per outcome).
// Outputs are each method's native fair probabilities; no global
// renormalization is applied. Additive devig can return non-positive
// probabilities for long shots, callers decide whether that is usable.
func (s Solver) Devig(probs []float64, margin float64, method Method) ([]float64, error) {
	if !method.Valid() {
		return nil, NewConfigurationError("method", fmt.Sprintf("unknown devig method %q", method))
	}
	if err := validateProbabilities(probs); err != nil {
		return nil, err
	}
	if math.IsNaN(margin) || math.IsInf(margin, 0) || margin <= -1 {
		return nil, NewInvalidOddsError("devig", margin, fmt.Sprintf("margin must be a finite number above -1, got %g", margin))
	}

	if math.Abs(margin) < zeroMargin {
		fair := make([]float64, len(probs))
		copy(fair, probs)
		return fair, nil
	}

	switch method {
	case MethodMultiplicative:
		return multiplicative(probs, margin), nil
	case MethodAdditive:
		return additive(probs, margin), nil
	case MethodPower:
		return s.power(probs)
	default:
		return s.shin(probs, margin)
	}
}

func multiplicative(probs []float64, margin float64) []float64 {
	fair := make([]float64, len(probs))
	for i, p := range probs {
		fair[i] = p / (1 + margin)
	}
	return fair
}

func additive(probs []float64, margin float64) []float64 {
	share := margin / float64(len(probs))
	fair := make([]float64, len(probs))
	for i, p := range probs {
		fair[i] = p - share
	}
	return fair
}

// power finds k with Σ p_i^k = 1. The sum equals n at k = 0 and falls
// monotonically towards 0 as k grows.
func (s Solver) power(probs []float64) ([]float64, error) {
	f := func(k float64) float64 {
		total := 0.0
		for _, p := range probs {
			total += math.Pow(p, k)
		}
		return total - 1
	}

	hi, err := s.expandUp(MethodPower, f, 1)
	if err != nil {
		return nil, err
	}
	k, err := s.bisect(MethodPower, f, 0, hi)
	if err != nil {
		return nil, err
	}

	fair := make([]float64, len(probs))
	for i, p := range probs {
		fair[i] = math.Pow(p, k)
	}
	return fair, nil
}

// shin solves Shin (1992) for the informed-money share z. The book's total
// implied probability is taken as 1 + margin.
func (s Solver) shin(probs []float64, margin float64) ([]float64, error) {
	booksum := 1 + margin
	term := func(p, z float64) float64 {
		return (math.Sqrt(z*z+4*(1-z)*p*p/booksum) - z) / (2 * (1 - z))
	}
	f := func(z float64) float64 {
		total := 0.0
		for _, p := range probs {
			total += term(p, z)
		}
		return total - 1
	}

	lo, err := s.expandDown(MethodShin, f, 0)
	if err != nil {
		return nil, err
	}
	if f(shinUpper) >= 0 {
		return nil, NewConvergenceError(MethodShin, 0, f(shinUpper))
	}
	z, err := s.bisect(MethodShin, f, lo, shinUpper)
	if err != nil {
		return nil, err
	}

	fair := make([]float64, len(probs))
	for i, p := range probs {
		fair[i] = term(p, z)
	}
	return fair, nil
}

func validateProbabilities(probs []float64) error {
	if len(probs) < 2 {
		return NewInvalidOddsError("devig", 0, fmt.Sprintf("need at least 2 outcomes, got %d", len(probs)))
	}
	for _, p := range probs {
		if math.IsNaN(p) || p <= 0 || p >= 1 {
			return NewInvalidOddsError("devig", p, fmt.Sprintf("implied probability must be between 0 and 1, got %g", p))
		}
	}
	return nil
}
