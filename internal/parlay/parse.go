package parlay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/fairline/internal/odds"
)

// ParseLegs parses the compact leg syntax "1.91/2.05,1.80/2.10": legs are
// comma separated, outcomes within a leg slash separated.
func ParseLegs(input string) ([]Leg, error) {
	if strings.TrimSpace(input) == "" {
		return nil, odds.NewInvalidOddsError("parse", 0, "no legs given")
	}

	parts := strings.Split(input, ",")
	legs := make([]Leg, 0, len(parts))
	for i, part := range parts {
		quoted, err := ParseOdds(part)
		if err != nil {
			return nil, odds.WithLeg(err, i)
		}
		legs = append(legs, Leg{Odds: quoted})
	}
	return legs, nil
}

// ParseOdds parses one slash separated market such as "1.91/2.05".
func ParseOdds(input string) ([]float64, error) {
	fields := strings.Split(input, "/")
	quoted := make([]float64, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, odds.NewInvalidOddsError("parse", 0, fmt.Sprintf("empty outcome in %q", input))
		}
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, odds.NewInvalidOddsError("parse", 0, fmt.Sprintf("%q is not a number", field))
		}
		quoted = append(quoted, value)
	}
	return quoted, nil
}
