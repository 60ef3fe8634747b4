package odds

import (
	"fmt"
	"math"
)

// ImpliedProbabilities returns the raw 1/odds vector for one market.
func ImpliedProbabilities(quoted []float64) ([]float64, error) {
	if err := validateMarket("implied probabilities", quoted); err != nil {
		return nil, err
	}
	probs := make([]float64, len(quoted))
	for i, o := range quoted {
		probs[i] = 1.0 / o
	}
	return probs, nil
}

// ComputeMargin returns the bookmaker overround Σ(1/odds) − 1 for mutually
// exclusive outcomes. A negative result means the quotes form an arbitrage.
func ComputeMargin(quoted []float64) (float64, error) {
	probs, err := ImpliedProbabilities(quoted)
	if err != nil {
		return 0, err
	}
	return sum(probs) - 1.0, nil
}

func validateMarket(op string, quoted []float64) error {
	if len(quoted) < 2 {
		return NewInvalidOddsError(op, 0, fmt.Sprintf("need at least 2 outcomes, got %d", len(quoted)))
	}
	for _, o := range quoted {
		if err := validateDecimal(op, o); err != nil {
			return err
		}
	}
	return nil
}

func validateDecimal(op string, decimal float64) error {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) {
		return NewInvalidOddsError(op, decimal, "odds must be a finite number")
	}
	if decimal <= 1.0 {
		return NewInvalidOddsError(op, decimal, fmt.Sprintf("decimal odds must be greater than 1.0, got %g", decimal))
	}
	return nil
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
