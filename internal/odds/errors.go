// Package odds implements the pricing core: bookmaker margin, devigging,
// odds conversion, parlay combination, expected value and Kelly sizing.
package odds

import (
	"errors"
	"fmt"
)

// Sentinel kinds, matched with errors.Is against the typed errors below.
var (
	ErrInvalidOdds   = errors.New("invalid odds")
	ErrConvergence   = errors.New("root-find did not converge")
	ErrConfiguration = errors.New("invalid configuration")
)

// noLeg marks an error that is not tied to a specific leg.
const noLeg = -1

// InvalidOddsError reports odds or probabilities outside their valid domain.
type InvalidOddsError struct {
	Op       string
	LegIndex int
	Value    float64
	Message  string
}

func (e *InvalidOddsError) Error() string {
	if e.LegIndex != noLeg {
		return fmt.Sprintf("invalid odds in %s (leg %d): %s", e.Op, e.LegIndex, e.Message)
	}
	return fmt.Sprintf("invalid odds in %s: %s", e.Op, e.Message)
}

func (e *InvalidOddsError) Unwrap() error { return ErrInvalidOdds }

// ConvergenceError reports a power or Shin root-find that exhausted its iteration bound.
type ConvergenceError struct {
	Method     Method
	LegIndex   int
	Iterations int
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	msg := fmt.Sprintf("%s devig did not converge after %d iterations (residual %.3g)", e.Method, e.Iterations, e.Residual)
	if e.LegIndex != noLeg {
		return fmt.Sprintf("%s on leg %d", msg, e.LegIndex)
	}
	return msg
}

func (e *ConvergenceError) Unwrap() error { return ErrConvergence }

// ConfigurationError reports inconsistent bankroll, multiplier or method selection.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewInvalidOddsError creates a new invalid odds error not bound to a leg.
func NewInvalidOddsError(op string, value float64, message string) *InvalidOddsError {
	return &InvalidOddsError{
		Op:       op,
		LegIndex: noLeg,
		Value:    value,
		Message:  message,
	}
}

// NewConvergenceError creates a new convergence error not bound to a leg.
func NewConvergenceError(method Method, iterations int, residual float64) *ConvergenceError {
	return &ConvergenceError{
		Method:     method,
		LegIndex:   noLeg,
		Iterations: iterations,
		Residual:   residual,
	}
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Message: message,
	}
}

// WithLeg returns a copy of err bound to the given leg index. Errors that
// carry no leg information are returned unchanged.
func WithLeg(err error, legIndex int) error {
	var invalid *InvalidOddsError
	if errors.As(err, &invalid) {
		cp := *invalid
		cp.LegIndex = legIndex
		return &cp
	}
	var convergence *ConvergenceError
	if errors.As(err, &convergence) {
		cp := *convergence
		cp.LegIndex = legIndex
		return &cp
	}
	return err
}

// Kind classifies err for metrics labels and API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidOdds):
		return "invalid_odds"
	case errors.Is(err, ErrConvergence):
		return "convergence"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "unknown"
	}
}
