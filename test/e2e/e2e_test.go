//go:build e2e

package e2e

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/fairline/internal/api"
	"github.com/yourusername/fairline/internal/config"
	"github.com/yourusername/fairline/internal/parlay"
	"github.com/yourusername/fairline/test/helpers"
)

const skipE2E = "Skipping E2E test in short mode"

const e2eConfig = `
app:
  name: fairline-e2e
  environment: staging
  log_level: debug
solver:
  tolerance: 1e-10
  max_iterations: 100
kelly:
  default_bankroll: 0
  default_multiplier: 0
  max_multiplier: 1
api:
  port: 18080
  rate_limit_rps: 100
  rate_limit_burst: 100
  cache_ttl_seconds: 30
  request_timeout_seconds: 5
  max_legs: 10
  allowed_origins:
    - http://localhost:3000
metrics:
  enabled: true
  path: /metrics
`

func startServer(t *testing.T) (*httptest.Server, *bytes.Buffer) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(e2eConfig), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))

	logBuf := &bytes.Buffer{}
	appLog := logrus.New()
	appLog.SetOutput(logBuf)
	appLog.SetFormatter(&logrus.JSONFormatter{})
	appLog.SetLevel(logrus.DebugLevel)

	srv := api.NewServer(api.Config{Version: "e2e", Settings: cfg, Logger: appLog})
	srv.SetReady(true)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, logBuf
}

func TestCompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip(skipE2E)
	}

	ts, logBuf := startServer(t)

	t.Run("ready", func(t *testing.T) {
		var ready api.ReadyResponse
		resp := helpers.GetJSON(t, ts.URL+"/ready", &ready)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "fairline-e2e", ready.Service)
	})

	t.Run("margin", func(t *testing.T) {
		var margin api.MarginResponse
		resp := helpers.PostJSON(t, ts.URL+"/api/v1/margin", api.MarginRequest{Odds: []float64{1.91, 2.05}}, &margin)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1.14, margin.MarginPercent)
	})

	t.Run("evaluate fixtures", func(t *testing.T) {
		for _, fixture := range helpers.LoadParlayFixtures(t) {
			t.Run(fixture.Name, func(t *testing.T) {
				body := api.EvaluateRequest{
					Legs:       fixture.Legs,
					FinalOdds:  fixture.FinalOdds,
					Bankroll:   fixture.Bankroll,
					Multiplier: fixture.Multiplier,
				}

				var report parlay.Report
				resp := helpers.PostJSON(t, ts.URL+"/api/v1/evaluate", body, &report)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				_, err := uuid.Parse(resp.Header.Get("X-Request-ID"))
				assert.NoError(t, err)
				assert.Equal(t, fixture.WantStake, report.Aggregate.AverageStake != nil)
				assert.Equal(t, fixture.WantWarn, len(report.Warnings) > 0)

				var cached parlay.Report
				resp = helpers.PostJSON(t, ts.URL+"/api/v1/evaluate", body, &cached)
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
				assert.Equal(t, report.ID, cached.ID)
			})
		}
	})

	t.Run("convert", func(t *testing.T) {
		var converted api.ConvertResponse
		resp := helpers.PostJSON(t, ts.URL+"/api/v1/convert", api.ConvertRequest{Value: -200, From: "american", To: "decimal"}, &converted)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.InDelta(t, 1.5, converted.Result, 1e-12)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		body := &bytes.Buffer{}
		_, err = body.ReadFrom(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, body.String(), `fairline_api_requests_total{route="/api/v1/evaluate",status="200"}`)
		assert.Contains(t, body.String(), "fairline_evaluation_cache_hits_total")
	})

	ts.Close()
	assert.True(t, strings.Contains(logBuf.String(), `"component":"api"`))
	assert.True(t, strings.Contains(logBuf.String(), `"component":"pricing"`))
}
