package odds

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// CombineFairOdds multiplies per-leg fair decimal odds into a parlay price.
// Legs are treated as statistically independent; correlated legs are not
// priced.
func CombineFairOdds(fairDecimals []float64) (float64, error) {
	if len(fairDecimals) == 0 {
		return 0, NewInvalidOddsError("combine", 0, "at least one leg is required")
	}
	combined := 1.0
	for i, d := range fairDecimals {
		if err := validateDecimal("combine", d); err != nil {
			return 0, WithLeg(err, i)
		}
		combined *= d
	}
	return combined, nil
}

// ExpectedValue returns the EV percentage of a bet at offeredDecimal odds when
// the true win probability is fairProb, rounded to 2 decimals:
// (fairProb × offeredDecimal − 1) × 100.
func ExpectedValue(fairProb, offeredDecimal float64) (float64, error) {
	if err := validateProbability("expected value", fairProb); err != nil {
		return 0, err
	}
	if err := validateDecimal("expected value", offeredDecimal); err != nil {
		return 0, err
	}
	return Round((fairProb*offeredDecimal-1)*100, 2), nil
}

// Round rounds x half away from zero to the given number of decimal places.
// NaN and infinities are returned unchanged.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// FormatValue renders x with exactly places decimals.
func FormatValue(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprint(x)
	}
	return decimal.NewFromFloat(x).StringFixed(places)
}

func validateProbability(op string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return NewInvalidOddsError(op, p, fmt.Sprintf("probability must be within [0, 1], got %g", p))
	}
	return nil
}
