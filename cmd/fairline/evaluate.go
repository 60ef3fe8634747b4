package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/fairline/internal/odds"
	"github.com/yourusername/fairline/internal/parlay"
)

var (
	evalLegs       string
	evalFinal      float64
	evalBankroll   float64
	evalMultiplier float64
	evalOutput     string
)

func init() {
	evaluateCmd.Flags().StringVar(&evalLegs, "legs", "", `Leg odds, e.g. "1.91/2.05,1.80/2.10" (first outcome of each leg is backed)`)
	evaluateCmd.Flags().Float64Var(&evalFinal, "final", 0, "Offered decimal odds for the whole parlay")
	evaluateCmd.Flags().Float64Var(&evalBankroll, "bankroll", 0, "Bankroll for Kelly sizing")
	evaluateCmd.Flags().Float64Var(&evalMultiplier, "multiplier", 0, "Kelly multiplier, e.g. 0.5 for half Kelly")
	evaluateCmd.Flags().StringVarP(&evalOutput, "output", "o", "text", "Output format: text or json")
	_ = evaluateCmd.MarkFlagRequired("legs")
	_ = evaluateCmd.MarkFlagRequired("final")
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a parlay under every devig method",
	RunE: func(cmd *cobra.Command, args []string) error {
		legs, err := parlay.ParseLegs(evalLegs)
		if err != nil {
			return err
		}

		req := parlay.BetRequest{Legs: legs, FinalOdds: evalFinal}
		if cmd.Flags().Changed("bankroll") {
			req.Bankroll = &evalBankroll
		}
		if cmd.Flags().Changed("multiplier") {
			req.Multiplier = &evalMultiplier
		}
		if req.Bankroll == nil && req.Multiplier == nil {
			req.Bankroll, req.Multiplier = cfg.DefaultStakeInputs()
		}
		if req.Multiplier != nil && *req.Multiplier > cfg.Kelly.MaxMultiplier {
			return odds.NewConfigurationError("multiplier", fmt.Sprintf("must not exceed %g", cfg.Kelly.MaxMultiplier))
		}

		evaluator := parlay.NewEvaluator(
			parlay.WithSolver(cfg.SolverSettings()),
			parlay.WithLogger(appLog),
		)
		report, err := evaluator.Evaluate(cmd.Context(), req)
		if err != nil {
			return err
		}

		switch evalOutput {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "text":
			return parlay.WriteReport(cmd.OutOrStdout(), report)
		default:
			return odds.NewConfigurationError("output", fmt.Sprintf("unknown output format %q", evalOutput))
		}
	},
}
