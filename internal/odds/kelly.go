package odds

import (
	"fmt"
	"math"
)

// KellyFraction returns the full-Kelly bankroll fraction p − (1−p)/b for win
// probability p and net odds b (decimal odds − 1). A negative result means
// the bet has negative edge.
func KellyFraction(p, b float64) (float64, error) {
	if err := validateProbability("kelly", p); err != nil {
		return 0, err
	}
	if math.IsNaN(b) || math.IsInf(b, 0) || b <= 0 {
		return 0, NewInvalidOddsError("kelly", b, fmt.Sprintf("net odds must be greater than 0, got %g", b))
	}
	return p - (1-p)/b, nil
}

// KellyStake sizes a wager as bankroll × fraction × multiplier. The signed
// result is returned as is; callers treat a negative stake as "no bet".
func KellyStake(p, b, bankroll, multiplier float64) (float64, error) {
	if math.IsNaN(bankroll) || math.IsInf(bankroll, 0) || bankroll < 0 {
		return 0, NewConfigurationError("bankroll", fmt.Sprintf("must be a non-negative number, got %g", bankroll))
	}
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier < 0 {
		return 0, NewConfigurationError("multiplier", fmt.Sprintf("must be a non-negative number, got %g", multiplier))
	}
	fraction, err := KellyFraction(p, b)
	if err != nil {
		return 0, err
	}
	return bankroll * fraction * multiplier, nil
}
