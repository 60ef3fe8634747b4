package odds

import (
	"fmt"
	"math"
	"strings"
)

// Format identifies an odds representation.
type Format string

const (
	FormatDecimal     Format = "decimal"
	FormatProbability Format = "probability"
	FormatAmerican    Format = "american"
)

// ParseFormat resolves a format name. "dec", "prob" and "us" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "decimal", "dec":
		return FormatDecimal, nil
	case "probability", "prob":
		return FormatProbability, nil
	case "american", "us":
		return FormatAmerican, nil
	default:
		return "", NewConfigurationError("format", fmt.Sprintf("unknown odds format %q", name))
	}
}

// Convert converts value between decimal, probability and American odds.
func Convert(value float64, from, to Format) (float64, error) {
	decimal, err := toDecimal(value, from)
	if err != nil {
		return 0, err
	}
	switch to {
	case FormatDecimal:
		return decimal, nil
	case FormatProbability:
		return DecimalToProbability(decimal)
	case FormatAmerican:
		return DecimalToAmerican(decimal)
	default:
		return 0, NewConfigurationError("to", fmt.Sprintf("unknown odds format %q", to))
	}
}

func toDecimal(value float64, from Format) (float64, error) {
	switch from {
	case FormatDecimal:
		if err := validateDecimal("convert", value); err != nil {
			return 0, err
		}
		return value, nil
	case FormatProbability:
		return ProbabilityToDecimal(value)
	case FormatAmerican:
		return AmericanToDecimal(value)
	default:
		return 0, NewConfigurationError("from", fmt.Sprintf("unknown odds format %q", from))
	}
}

// DecimalToProbability converts decimal odds to implied probability.
// Decimal 2.00 → 0.50
func DecimalToProbability(decimal float64) (float64, error) {
	if err := validateDecimal("decimal to probability", decimal); err != nil {
		return 0, err
	}
	return 1.0 / decimal, nil
}

// ProbabilityToDecimal converts a probability in (0,1) to decimal odds.
// 0.50 → Decimal 2.00
func ProbabilityToDecimal(probability float64) (float64, error) {
	if math.IsNaN(probability) || probability <= 0 || probability >= 1 {
		return 0, NewInvalidOddsError("probability to decimal", probability, fmt.Sprintf("probability must be between 0 and 1, got %g", probability))
	}
	return 1.0 / probability, nil
}

// DecimalToAmerican converts decimal odds to American odds without rounding.
// Decimal 2.50 → American +150
// Decimal 1.50 → American -200
func DecimalToAmerican(decimal float64) (float64, error) {
	if err := validateDecimal("decimal to american", decimal); err != nil {
		return 0, err
	}
	if decimal >= 2.0 {
		return (decimal - 1.0) * 100.0, nil
	}
	return -100.0 / (decimal - 1.0), nil
}

// AmericanToDecimal converts American odds to decimal odds.
// American +150 → Decimal 2.50
// American -200 → Decimal 1.50
func AmericanToDecimal(american float64) (float64, error) {
	if math.IsNaN(american) || math.IsInf(american, 0) || math.Abs(american) < 100 {
		return 0, NewInvalidOddsError("american to decimal", american, fmt.Sprintf("american odds must be <= -100 or >= +100, got %g", american))
	}
	if american > 0 {
		return american/100.0 + 1.0, nil
	}
	return 100.0/-american + 1.0, nil
}
