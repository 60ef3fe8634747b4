package parlay

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/fairline/internal/odds"
)

func ptr(v float64) *float64 { return &v }

func TestParseLegs(t *testing.T) {
	legs, err := ParseLegs("1.91/2.05, 1.80/2.10")
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, []float64{1.91, 2.05}, legs[0].Odds)
	assert.Equal(t, []float64{1.80, 2.10}, legs[1].Odds)
}

func TestParseLegs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLeg int
	}{
		{name: "not a number", input: "1.91/x", wantLeg: 0},
		{name: "trailing comma", input: "1.91/2.05,", wantLeg: 1},
		{name: "empty outcome", input: "1.91/2.05,1.80//2.10", wantLeg: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLegs(tt.input)
			require.Error(t, err)

			var invalid *odds.InvalidOddsError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.wantLeg, invalid.LegIndex)
		})
	}

	_, err := ParseLegs("   ")
	assert.ErrorIs(t, err, odds.ErrInvalidOdds)
}

func TestStakeRequested(t *testing.T) {
	tests := []struct {
		name       string
		bankroll   *float64
		multiplier *float64
		want       bool
		wantErr    bool
	}{
		{name: "neither supplied", want: false},
		{name: "both supplied", bankroll: ptr(1000), multiplier: ptr(0.5), want: true},
		{name: "zero bankroll", bankroll: ptr(0), multiplier: ptr(1), want: false},
		{name: "zero multiplier", bankroll: ptr(1000), multiplier: ptr(0), want: false},
		{name: "bankroll only", bankroll: ptr(1000), wantErr: true},
		{name: "multiplier only", multiplier: ptr(1), wantErr: true},
		{name: "negative bankroll", bankroll: ptr(-5), multiplier: ptr(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BetRequest{Bankroll: tt.bankroll, Multiplier: tt.multiplier}
			got, err := req.StakeRequested()
			if tt.wantErr {
				assert.ErrorIs(t, err, odds.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_ZeroMarginMethodsAgree(t *testing.T) {
	report, err := EvaluateParlay([]Leg{{Odds: []float64{2.0, 2.0}}}, 2.0, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, odds.Methods(), report.Order)
	require.Len(t, report.Results, 4)
	for _, result := range report.Ordered() {
		require.Len(t, result.Legs, 1)
		assert.Equal(t, 0.5, result.Legs[0].Probability, result.Method.String())
		assert.Equal(t, 2.0, result.CombinedOdds)
		assert.Equal(t, 0.0, result.EV)
		assert.Nil(t, result.Stake)
		assert.Contains(t, result.Summary, "Kelly Wager = n/a")
	}
	assert.Nil(t, report.Aggregate.AverageStake)
	assert.Nil(t, report.Aggregate.MinStake)
	assert.Empty(t, report.Warnings)
}

func TestEvaluate_PositiveEdgeStake(t *testing.T) {
	report, err := EvaluateParlay([]Leg{{Odds: []float64{2.0, 2.0}}}, 2.2, ptr(1000), ptr(1))
	require.NoError(t, err)

	for _, result := range report.Ordered() {
		assert.Equal(t, 10.0, result.EV)
		require.NotNil(t, result.Stake)
		assert.Equal(t, 83.33, *result.Stake)
		assert.Contains(t, result.Summary, "Kelly Wager = $83.33")
	}

	agg := report.Aggregate
	assert.Equal(t, 10.0, agg.AverageEV)
	assert.Equal(t, 10.0, agg.MinEV)
	require.NotNil(t, agg.AverageStake)
	require.NotNil(t, agg.MinStake)
	assert.Equal(t, 83.33, *agg.AverageStake)
	assert.Equal(t, 83.33, *agg.MinStake)
}

func TestEvaluate_NegativeStakeIsReported(t *testing.T) {
	report, err := EvaluateParlay([]Leg{{Odds: []float64{2.0, 2.0}}}, 1.5, ptr(1000), ptr(1))
	require.NoError(t, err)

	result := report.Results[odds.MethodMultiplicative]
	assert.Equal(t, -25.0, result.EV)
	require.NotNil(t, result.Stake)
	assert.Equal(t, -500.0, *result.Stake)
}

func TestEvaluate_TwoLegParlay(t *testing.T) {
	legs := []Leg{
		{Odds: []float64{1.91, 2.05}},
		{Odds: []float64{1.80, 2.10}},
	}
	report, err := EvaluateParlay(legs, 3.6, ptr(500), ptr(0.25))
	require.NoError(t, err)

	mult := report.Results[odds.MethodMultiplicative]
	assert.InDelta(t, 1.9318, mult.Legs[0].Decimal, 1e-3)
	assert.InDelta(t, 0.01137, mult.Legs[0].Margin, 1e-4)

	sumEV, minEV := 0.0, mult.EV
	for _, result := range report.Ordered() {
		require.Len(t, result.Legs, 2)
		assert.InDelta(t, result.Legs[0].Decimal*result.Legs[1].Decimal, result.CombinedOdds, 1e-9)
		assert.InDelta(t, 1/result.CombinedOdds, result.CombinedProbability, 1e-12)
		assert.Equal(t, odds.Round((result.CombinedProbability*3.6-1)*100, 2), result.EV)
		assert.Contains(t, result.Summary, "Leg#0 (1.91)")
		assert.Contains(t, result.Summary, "Leg#1 (1.8)")
		assert.Contains(t, result.Summary, "Final Odds (3.6)")
		require.NotNil(t, result.Stake)

		sumEV += result.EV
		if result.EV < minEV {
			minEV = result.EV
		}
	}

	assert.Equal(t, odds.Round(sumEV/4, 2), report.Aggregate.AverageEV)
	assert.Equal(t, minEV, report.Aggregate.MinEV)
	assert.LessOrEqual(t, report.Aggregate.MinEV, report.Aggregate.AverageEV)
	assert.LessOrEqual(t, *report.Aggregate.MinStake, *report.Aggregate.AverageStake)
}

func TestEvaluate_NegativeMarginWarns(t *testing.T) {
	report, err := EvaluateParlay([]Leg{{Odds: []float64{2.1, 2.1}}}, 2.0, nil, nil)
	require.NoError(t, err)

	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "leg 0 has a negative margin")
	for _, result := range report.Ordered() {
		assert.InDelta(t, 0.5, result.Legs[0].Probability, 1e-8, result.Method.String())
		assert.Less(t, result.Legs[0].Margin, 0.0)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report))
	assert.Contains(t, buf.String(), "WARNING: leg 0 has a negative margin")
	assert.Contains(t, buf.String(), "[shin]")
}

func TestEvaluate_Errors(t *testing.T) {
	valid := []Leg{{Odds: []float64{1.91, 2.05}}}

	tests := []struct {
		name    string
		req     BetRequest
		wantErr error
	}{
		{name: "no legs", req: BetRequest{FinalOdds: 2}, wantErr: odds.ErrInvalidOdds},
		{name: "final odds at one", req: BetRequest{Legs: valid, FinalOdds: 1}, wantErr: odds.ErrInvalidOdds},
		{name: "single outcome leg", req: BetRequest{Legs: []Leg{{Odds: []float64{1.5}}}, FinalOdds: 2}, wantErr: odds.ErrInvalidOdds},
		{name: "bankroll without multiplier", req: BetRequest{Legs: valid, FinalOdds: 2, Bankroll: ptr(100)}, wantErr: odds.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewEvaluator().Evaluate(context.Background(), tt.req)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvaluate_InvalidLegIndex(t *testing.T) {
	legs := []Leg{
		{Odds: []float64{1.91, 2.05}},
		{Odds: []float64{0.9, 2.05}},
	}
	_, err := EvaluateParlay(legs, 3, nil, nil)

	var invalid *odds.InvalidOddsError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 1, invalid.LegIndex)
}

func TestEvaluate_AdditiveLongShotFails(t *testing.T) {
	_, err := EvaluateParlay([]Leg{{Odds: []float64{40, 1.2, 1.5}}}, 30, nil, nil)
	require.Error(t, err)

	var invalid *odds.InvalidOddsError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 0, invalid.LegIndex)
	assert.Contains(t, err.Error(), "additive")
}

func TestEvaluate_ConvergenceFailureAbortsEvaluation(t *testing.T) {
	evaluator := NewEvaluator(WithSolver(odds.Solver{Tolerance: 1e-300, MaxIterations: 2}))

	report, err := evaluator.Evaluate(context.Background(), BetRequest{
		Legs:      []Leg{{Odds: []float64{1.91, 2.05}}},
		FinalOdds: 2,
	})
	assert.Nil(t, report)
	require.ErrorIs(t, err, odds.ErrConvergence)

	var convergence *odds.ConvergenceError
	require.True(t, errors.As(err, &convergence))
	assert.Equal(t, odds.MethodPower, convergence.Method)
	assert.Equal(t, 0, convergence.LegIndex)
	assert.Contains(t, err.Error(), "power method")
}

func TestEvaluate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEvaluator().Evaluate(ctx, BetRequest{
		Legs:      []Leg{{Odds: []float64{1.91, 2.05}}},
		FinalOdds: 2,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregate(t *testing.T) {
	assert.Equal(t, AggregateResult{}, Aggregate(nil))

	results := []MethodResult{
		{EV: 4.1, Stake: ptr(12.5)},
		{EV: -1.2, Stake: ptr(-3)},
		{EV: 2.0, Stake: ptr(7)},
	}
	agg := Aggregate(results)
	assert.Equal(t, 1.63, agg.AverageEV)
	assert.Equal(t, -1.2, agg.MinEV)
	require.NotNil(t, agg.AverageStake)
	assert.Equal(t, 5.5, *agg.AverageStake)
	assert.Equal(t, -3.0, *agg.MinStake)

	results[1].Stake = nil
	agg = Aggregate(results)
	assert.Nil(t, agg.AverageStake)
	assert.Nil(t, agg.MinStake)
}

func TestSummarize(t *testing.T) {
	result := MethodResult{
		Legs: []FairOdds{{
			LegIndex:    0,
			QuotedOdds:  1.91,
			Margin:      0.0114,
			Probability: 0.5177,
			Decimal:     1.9317,
			American:    -107.3,
		}},
		CombinedOdds:        2.5,
		CombinedAmerican:    150,
		CombinedProbability: 0.4,
		EV:                  4,
		Stake:               ptr(21.456),
	}

	summary := Summarize(result, 2.6)
	assert.Contains(t, summary, "Leg#0 (1.91): Margin = 1.14% | Fair Value = 1.93 (US -107) (51.77%)")
	assert.Contains(t, summary, "Final Odds (2.6): Total Fair Value = 2.50 (US +150) (40.00%)")
	assert.Contains(t, summary, "EV% = 4.00%, Kelly Wager = $21.46")
}
