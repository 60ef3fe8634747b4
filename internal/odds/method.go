package odds

import (
	"fmt"
	"strings"
)

// Method selects a devigging normalization.
type Method string

const (
	// MethodMultiplicative removes the margin proportionally.
	MethodMultiplicative Method = "multiplicative"
	// MethodAdditive removes an equal absolute share of the margin from each outcome.
	MethodAdditive Method = "additive"
	// MethodPower raises each probability to the exponent that makes them sum to one.
	MethodPower Method = "power"
	// MethodShin solves Shin's insider-trading model for the informed-money share.
	MethodShin Method = "shin"
)

// Methods returns every supported method in reporting order.
func Methods() []Method {
	return []Method{MethodMultiplicative, MethodAdditive, MethodPower, MethodShin}
}

// ParseMethod resolves a method name; "basic" is accepted for multiplicative.
func ParseMethod(name string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(name)))
	if m == "basic" {
		return MethodMultiplicative, nil
	}
	if !m.Valid() {
		return "", NewConfigurationError("method", fmt.Sprintf("unknown devig method %q", name))
	}
	return m, nil
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodMultiplicative, MethodAdditive, MethodPower, MethodShin:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	return string(m)
}
