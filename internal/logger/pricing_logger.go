package logger

import (
	"github.com/sirupsen/logrus"
)

// PricingLogger provides dedicated logging for devig and parlay evaluation.
type PricingLogger struct {
	*logrus.Entry
}

// NewPricingLogger creates a new pricing logger.
func NewPricingLogger(baseLogger *logrus.Logger) *PricingLogger {
	return &PricingLogger{
		Entry: baseLogger.WithField("component", "pricing"),
	}
}

// LogEvaluation logs a completed parlay evaluation.
func (pl *PricingLogger) LogEvaluation(reportID string, legs int, finalOdds, averageEV, minEV float64, stakeRequested bool, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"report_id":       reportID,
		"legs":            legs,
		"final_odds":      finalOdds,
		"average_ev":      averageEV,
		"min_ev":          minEV,
		"stake_requested": stakeRequested,
		"duration_ms":     durationMs,
	}).Info("Parlay evaluation completed")
}

// LogMethodResult logs the outcome of one devig method.
func (pl *PricingLogger) LogMethodResult(method string, combinedOdds, ev float64, stake *float64) {
	fields := logrus.Fields{
		"method":        method,
		"combined_odds": combinedOdds,
		"ev_percent":    ev,
	}
	if stake != nil {
		fields["stake"] = *stake
	}
	pl.WithFields(fields).Debug("Devig method evaluated")
}

// LogNegativeMargin logs a leg whose quotes sum below 100%.
func (pl *PricingLogger) LogNegativeMargin(legIndex int, quoted []float64, margin float64) {
	pl.WithFields(logrus.Fields{
		"leg_index": legIndex,
		"odds":      quoted,
		"margin":    margin,
	}).Warn("Negative margin detected, quotes form an arbitrage or are stale")
}

// LogMethodFailure logs a devig method that aborted the evaluation.
func (pl *PricingLogger) LogMethodFailure(method, kind string, err error) {
	pl.WithFields(logrus.Fields{
		"method": method,
		"kind":   kind,
	}).WithError(err).Error("Devig method failed")
}
