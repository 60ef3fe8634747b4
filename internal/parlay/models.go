// Package parlay evaluates multi-leg wagers under every devig method and
// aggregates the expected value and Kelly stake across methods.
package parlay

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/fairline/internal/odds"
)

// Leg holds the decimal odds for the mutually exclusive sides of one market.
// The first outcome is the one being bet.
type Leg struct {
	Odds []float64 `json:"odds" validate:"min=2,dive,gt=1"`
}

// BetRequest is the full input of one evaluation.
// Bankroll and Multiplier are nil when the caller did not supply them.
type BetRequest struct {
	Legs       []Leg    `json:"legs"`
	FinalOdds  float64  `json:"final_odds"`
	Bankroll   *float64 `json:"bankroll,omitempty"`
	Multiplier *float64 `json:"multiplier,omitempty"`
}

// StakeRequested reports whether a Kelly stake should be computed. Both
// inputs must be supplied together; a zero value in either means no stake.
func (r BetRequest) StakeRequested() (bool, error) {
	if r.Bankroll == nil && r.Multiplier == nil {
		return false, nil
	}
	if r.Bankroll == nil {
		return false, odds.NewConfigurationError("bankroll", "multiplier supplied without bankroll")
	}
	if r.Multiplier == nil {
		return false, odds.NewConfigurationError("multiplier", "bankroll supplied without multiplier")
	}
	if *r.Bankroll < 0 {
		return false, odds.NewConfigurationError("bankroll", "must not be negative")
	}
	if *r.Multiplier < 0 {
		return false, odds.NewConfigurationError("multiplier", "must not be negative")
	}
	return *r.Bankroll != 0 && *r.Multiplier != 0, nil
}

// FairOdds is the devigged price of the first outcome of one leg.
type FairOdds struct {
	LegIndex    int     `json:"leg_index"`
	QuotedOdds  float64 `json:"quoted_odds"`
	Margin      float64 `json:"margin"`
	Probability float64 `json:"probability"`
	Decimal     float64 `json:"decimal"`
	American    float64 `json:"american"`
}

// MethodResult is the outcome of one devig method over every leg.
// Stake is nil when no stake was requested.
type MethodResult struct {
	Method              odds.Method `json:"method"`
	Legs                []FairOdds  `json:"legs"`
	CombinedOdds        float64     `json:"combined_odds"`
	CombinedAmerican    float64     `json:"combined_american"`
	CombinedProbability float64     `json:"combined_probability"`
	EV                  float64     `json:"ev_percent"`
	Stake               *float64    `json:"stake,omitempty"`
	Summary             string      `json:"summary"`
}

// AggregateResult summarises EV and stake across methods.
type AggregateResult struct {
	AverageEV    float64  `json:"average_ev_percent"`
	MinEV        float64  `json:"min_ev_percent"`
	AverageStake *float64 `json:"average_stake,omitempty"`
	MinStake     *float64 `json:"min_stake,omitempty"`
}

// Report is the full output of one evaluation.
type Report struct {
	ID          uuid.UUID                    `json:"id"`
	Request     BetRequest                   `json:"request"`
	Order       []odds.Method                `json:"order"`
	Results     map[odds.Method]MethodResult `json:"results"`
	Aggregate   AggregateResult              `json:"aggregate"`
	Warnings    []string                     `json:"warnings,omitempty"`
	EvaluatedAt time.Time                    `json:"evaluated_at"`
}

// Ordered returns the method results in reporting order.
func (r *Report) Ordered() []MethodResult {
	results := make([]MethodResult, 0, len(r.Order))
	for _, m := range r.Order {
		results = append(results, r.Results[m])
	}
	return results
}
