package parlay

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summarize renders one method result as human readable lines.
func Summarize(result MethodResult, finalOdds float64) string {
	var b strings.Builder
	for _, leg := range result.Legs {
		fmt.Fprintf(&b, "Leg#%d (%s): Margin = %s%% | Fair Value = %s (US %s) (%s%%)\n",
			leg.LegIndex, plain(leg.QuotedOdds), percent(leg.Margin),
			fixed(leg.Decimal), american(leg.American), percent(leg.Probability))
	}
	fmt.Fprintf(&b, "Final Odds (%s): Total Fair Value = %s (US %s) (%s%%)\n",
		plain(finalOdds), fixed(result.CombinedOdds), american(result.CombinedAmerican),
		percent(result.CombinedProbability))
	fmt.Fprintf(&b, "EV%% = %s%%, Kelly Wager = %s", fixed(result.EV), wager(result.Stake))
	return b.String()
}

// WriteReport writes every method summary, the aggregate and any warnings.
func WriteReport(w io.Writer, report *Report) error {
	var b strings.Builder
	for _, result := range report.Ordered() {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", result.Method, result.Summary)
	}

	agg := report.Aggregate
	fmt.Fprintf(&b, "Average EV%% = %s%%, Min EV%% = %s%%\n", fixed(agg.AverageEV), fixed(agg.MinEV))
	if agg.AverageStake != nil && agg.MinStake != nil {
		fmt.Fprintf(&b, "Average Kelly Wager = %s, Min Kelly Wager = %s\n", wager(agg.AverageStake), wager(agg.MinStake))
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(&b, "WARNING: %s\n", warning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func plain(x float64) string {
	return decimal.NewFromFloat(x).String()
}

func fixed(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

func percent(x float64) string {
	return decimal.NewFromFloat(x).Mul(hundred).StringFixed(2)
}

func american(x float64) string {
	d := decimal.NewFromFloat(x).Round(0)
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}

func wager(stake *float64) string {
	if stake == nil {
		return "n/a"
	}
	return "$" + fixed(*stake)
}
