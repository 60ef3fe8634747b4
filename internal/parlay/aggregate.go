package parlay

import (
	"math"

	"github.com/yourusername/fairline/internal/odds"
)

// Aggregate computes the mean and minimum EV and stake across method results.
// Stake aggregates are only set when every result carries a stake.
func Aggregate(results []MethodResult) AggregateResult {
	if len(results) == 0 {
		return AggregateResult{}
	}

	sumEV, minEV := 0.0, math.Inf(1)
	sumStake, minStake := 0.0, math.Inf(1)
	staked := 0

	for _, r := range results {
		sumEV += r.EV
		minEV = math.Min(minEV, r.EV)
		if r.Stake != nil {
			staked++
			sumStake += *r.Stake
			minStake = math.Min(minStake, *r.Stake)
		}
	}

	agg := AggregateResult{
		AverageEV: odds.Round(sumEV/float64(len(results)), 2),
		MinEV:     minEV,
	}
	if staked == len(results) {
		avg := odds.Round(sumStake/float64(staked), 2)
		agg.AverageStake = &avg
		agg.MinStake = &minStake
	}
	return agg
}
