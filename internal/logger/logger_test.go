package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestPricingLoggerEvaluation(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogEvaluation("report-1", 2, 3.6, -1.5, -2.25, true, 0.4)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "report-1", logEntry["report_id"])
	assert.Equal(t, "pricing", logEntry["component"])
	assert.Equal(t, float64(2), logEntry["legs"])
	assert.Equal(t, true, logEntry["stake_requested"])
}

func TestPricingLoggerMethodResult(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	stake := 12.5
	pricingLogger.LogMethodResult("shin", 3.72, 1.8, &stake)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "shin", logEntry["method"])
	assert.Equal(t, 12.5, logEntry["stake"])
	assert.Equal(t, "debug", logEntry["level"])
}

func TestPricingLoggerMethodResultWithoutStake(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogMethodResult("power", 3.72, 1.8, nil)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	_, hasStake := logEntry["stake"]
	assert.False(t, hasStake)
}

func TestPricingLoggerNegativeMargin(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogNegativeMargin(1, []float64{2.1, 2.1}, -0.0476)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, float64(1), logEntry["leg_index"])
}

func TestPricingLoggerMethodFailure(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogMethodFailure("shin", "convergence", errors.New("no root"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "no root", logEntry["error"])
	assert.Equal(t, "convergence", logEntry["kind"])
}

func TestAccessLoggerRequest(t *testing.T) {
	log, buf := setupTestLogger()
	accessLogger := NewAccessLogger(log)

	accessLogger.LogRequest("req-1", "POST", "/api/v1/evaluate", 200, 1500*time.Microsecond, true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "api", logEntry["component"])
	assert.Equal(t, 1.5, logEntry["duration_ms"])
	assert.Equal(t, true, logEntry["cached"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestAccessLoggerRateLimited(t *testing.T) {
	log, buf := setupTestLogger()
	accessLogger := NewAccessLogger(log)

	accessLogger.LogRateLimited("req-2", "127.0.0.1:5000", "/api/v1/evaluate")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "127.0.0.1:5000", logEntry["remote_addr"])
}

func TestNewLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger("debug", "development", buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("nonsense", "development", buf)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestLoggerJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger("info", "production", buf)

	log.WithField("legs", 3).Info("hello")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "hello", logEntry["msg"])
	assert.Equal(t, float64(3), logEntry["legs"])
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.NotPanics(t, func() {
		log.Info("dropped")
	})
}
