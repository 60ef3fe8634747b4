package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ParlayFixture is one priced parlay scenario.
type ParlayFixture struct {
	Name       string      `json:"name"`
	Legs       [][]float64 `json:"legs"`
	FinalOdds  float64     `json:"final_odds"`
	Bankroll   *float64    `json:"bankroll,omitempty"`
	Multiplier *float64    `json:"multiplier,omitempty"`
	WantStake  bool        `json:"want_stake"`
	WantWarn   bool        `json:"want_warning"`
}

// LoadFixture loads test data from a JSON fixture file in test/fixtures.
// Callers live one directory below test/.
func LoadFixture(t *testing.T, filename string, target interface{}) {
	t.Helper()

	fixturePath := filepath.Join("..", "fixtures", filename)
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err, "failed to read fixture file: %s", filename)

	err = json.Unmarshal(data, target)
	require.NoError(t, err, "failed to unmarshal fixture: %s", filename)
}

// LoadParlayFixtures loads the parlay scenarios.
func LoadParlayFixtures(t *testing.T) []ParlayFixture {
	t.Helper()

	var parlays []ParlayFixture
	LoadFixture(t, "parlays.json", &parlays)
	return parlays
}

// PostJSON posts body as JSON and decodes the response into out when out is non-nil.
func PostJSON(t *testing.T, url string, body, out interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// GetJSON issues a GET and decodes the response into out when out is non-nil.
func GetJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// WaitForCondition waits for a condition to become true or times out.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	require.Fail(t, "condition not met within timeout", message)
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
