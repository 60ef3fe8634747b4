package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/fairline/internal/odds"
	"github.com/yourusername/fairline/internal/parlay"
)

var (
	convertValue float64
	convertFrom  string
	convertTo    string
	marginOdds   string
)

func init() {
	convertCmd.Flags().Float64Var(&convertValue, "value", 0, "Value to convert")
	convertCmd.Flags().StringVar(&convertFrom, "from", "decimal", "Source format: decimal, probability or american")
	convertCmd.Flags().StringVar(&convertTo, "to", "american", "Target format: decimal, probability or american")
	_ = convertCmd.MarkFlagRequired("value")

	marginCmd.Flags().StringVar(&marginOdds, "odds", "", `Market odds, e.g. "1.91/2.05"`)
	_ = marginCmd.MarkFlagRequired("odds")
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between decimal, probability and American odds",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := odds.ParseFormat(convertFrom)
		if err != nil {
			return err
		}
		to, err := odds.ParseFormat(convertTo)
		if err != nil {
			return err
		}

		result, err := odds.Convert(convertValue, from, to)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%g %s = %s %s\n", convertValue, from, odds.FormatValue(result, 4), to)
		return nil
	},
}

var marginCmd = &cobra.Command{
	Use:   "margin",
	Short: "Show the margin of one market and its fair probabilities per method",
	RunE: func(cmd *cobra.Command, args []string) error {
		quoted, err := parlay.ParseOdds(marginOdds)
		if err != nil {
			return err
		}
		probs, err := odds.ImpliedProbabilities(quoted)
		if err != nil {
			return err
		}
		margin, err := odds.ComputeMargin(quoted)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Margin = %s%%\n", odds.FormatValue(margin*100, 2))
		if margin < 0 {
			fmt.Fprintln(out, "WARNING: negative margin, quotes form an arbitrage or are stale")
		}

		solver := cfg.SolverSettings()
		for _, method := range odds.Methods() {
			fair, err := solver.Devig(probs, margin, method)
			if err != nil {
				return fmt.Errorf("%s method: %w", method, err)
			}
			fmt.Fprintf(out, "%-15s", method)
			for _, p := range fair {
				fmt.Fprintf(out, " %s%%", odds.FormatValue(p*100, 2))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
