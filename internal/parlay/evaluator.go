package parlay

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/fairline/internal/logger"
	"github.com/yourusername/fairline/internal/metrics"
	"github.com/yourusername/fairline/internal/odds"
)

// Evaluator runs every devig method over a BetRequest through one pipeline.
// It holds no per-request state and is safe for concurrent use.
type Evaluator struct {
	solver odds.Solver
	log    *logger.PricingLogger
	now    func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithSolver overrides the root-finding bounds.
func WithSolver(solver odds.Solver) Option {
	return func(e *Evaluator) {
		e.solver = solver
	}
}

// WithLogger sets the base logger; evaluations log under component=pricing.
func WithLogger(base *logrus.Logger) Option {
	return func(e *Evaluator) {
		if base != nil {
			e.log = logger.NewPricingLogger(base)
		}
	}
}

// NewEvaluator creates an evaluator with the default solver and a discarding logger.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		solver: odds.DefaultSolver(),
		log:    logger.NewPricingLogger(logger.Discard()),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateParlay evaluates legs against finalOdds with a default evaluator.
func EvaluateParlay(legs []Leg, finalOdds float64, bankroll, multiplier *float64) (*Report, error) {
	return NewEvaluator().Evaluate(context.Background(), BetRequest{
		Legs:       legs,
		FinalOdds:  finalOdds,
		Bankroll:   bankroll,
		Multiplier: multiplier,
	})
}

type preparedLeg struct {
	quoted []float64
	probs  []float64
	margin float64
}

// Evaluate devigs every leg under each method, prices the parlay against the
// final odds and aggregates the results. Any method failure fails the whole
// evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, req BetRequest) (*Report, error) {
	start := time.Now()
	report, err := e.evaluate(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.RecordEvaluation(odds.Kind(err), len(req.Legs), duration.Seconds())
		return nil, err
	}
	metrics.RecordEvaluation("success", len(req.Legs), duration.Seconds())

	stakeRequested := report.Aggregate.AverageStake != nil
	e.log.LogEvaluation(report.ID.String(), len(req.Legs), req.FinalOdds, report.Aggregate.AverageEV,
		report.Aggregate.MinEV, stakeRequested, float64(duration.Microseconds())/1000)
	return report, nil
}

func (e *Evaluator) evaluate(ctx context.Context, req BetRequest) (*Report, error) {
	if len(req.Legs) == 0 {
		return nil, odds.NewInvalidOddsError("evaluate", 0, "at least one leg is required")
	}
	if _, err := odds.DecimalToProbability(req.FinalOdds); err != nil {
		return nil, fmt.Errorf("final odds: %w", err)
	}
	stakeRequested, err := req.StakeRequested()
	if err != nil {
		return nil, err
	}

	legs, warnings, err := e.prepare(req.Legs)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.New(),
		Request:     req,
		Order:       odds.Methods(),
		Results:     make(map[odds.Method]MethodResult, len(odds.Methods())),
		Warnings:    warnings,
		EvaluatedAt: e.now().UTC(),
	}

	for _, method := range report.Order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := e.evaluateMethod(method, legs, req, stakeRequested)
		if err != nil {
			kind := odds.Kind(err)
			metrics.RecordMethodFailure(method.String(), kind)
			e.log.LogMethodFailure(method.String(), kind, err)
			return nil, fmt.Errorf("%s method: %w", method, err)
		}

		metrics.UpdateMethodEV(method.String(), result.EV)
		e.log.LogMethodResult(method.String(), result.CombinedOdds, result.EV, result.Stake)
		report.Results[method] = result
	}

	report.Aggregate = Aggregate(report.Ordered())
	return report, nil
}

func (e *Evaluator) prepare(legs []Leg) ([]preparedLeg, []string, error) {
	prepared := make([]preparedLeg, len(legs))
	var warnings []string

	for i, leg := range legs {
		probs, err := odds.ImpliedProbabilities(leg.Odds)
		if err != nil {
			return nil, nil, odds.WithLeg(err, i)
		}
		margin, err := odds.ComputeMargin(leg.Odds)
		if err != nil {
			return nil, nil, odds.WithLeg(err, i)
		}

		if margin < 0 {
			warnings = append(warnings, fmt.Sprintf("leg %d has a negative margin of %.2f%%: quotes form an arbitrage or are stale", i, margin*100))
			metrics.RecordNegativeMargin()
			e.log.LogNegativeMargin(i, leg.Odds, margin)
		}

		prepared[i] = preparedLeg{quoted: leg.Odds, probs: probs, margin: margin}
	}
	return prepared, warnings, nil
}

func (e *Evaluator) evaluateMethod(method odds.Method, legs []preparedLeg, req BetRequest, stakeRequested bool) (MethodResult, error) {
	fair := make([]FairOdds, 0, len(legs))
	decimals := make([]float64, 0, len(legs))

	for i, leg := range legs {
		probs, err := e.solver.Devig(leg.probs, leg.margin, method)
		if err != nil {
			return MethodResult{}, odds.WithLeg(err, i)
		}

		p := probs[0]
		if p <= 0 || p >= 1 {
			err := odds.NewInvalidOddsError("devig", p, fmt.Sprintf("%s devig left fair probability %.4f outside (0, 1)", method, p))
			return MethodResult{}, odds.WithLeg(err, i)
		}

		decimal := 1 / p
		american, err := odds.DecimalToAmerican(decimal)
		if err != nil {
			return MethodResult{}, odds.WithLeg(err, i)
		}

		fair = append(fair, FairOdds{
			LegIndex:    i,
			QuotedOdds:  leg.quoted[0],
			Margin:      leg.margin,
			Probability: p,
			Decimal:     decimal,
			American:    american,
		})
		decimals = append(decimals, decimal)
	}

	combined, err := odds.CombineFairOdds(decimals)
	if err != nil {
		return MethodResult{}, err
	}
	combinedAmerican, err := odds.DecimalToAmerican(combined)
	if err != nil {
		return MethodResult{}, err
	}
	combinedProb := 1 / combined

	ev, err := odds.ExpectedValue(combinedProb, req.FinalOdds)
	if err != nil {
		return MethodResult{}, err
	}

	result := MethodResult{
		Method:              method,
		Legs:                fair,
		CombinedOdds:        combined,
		CombinedAmerican:    combinedAmerican,
		CombinedProbability: combinedProb,
		EV:                  ev,
	}

	if stakeRequested {
		stake, err := odds.KellyStake(combinedProb, req.FinalOdds-1, *req.Bankroll, *req.Multiplier)
		if err != nil {
			return MethodResult{}, err
		}
		rounded := odds.Round(stake, 2)
		result.Stake = &rounded
	}

	result.Summary = Summarize(result, req.FinalOdds)
	return result, nil
}
