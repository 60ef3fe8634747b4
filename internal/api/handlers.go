package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/fairline/internal/metrics"
	"github.com/yourusername/fairline/internal/odds"
	"github.com/yourusername/fairline/internal/parlay"
)

const maxBodyBytes = 1 << 20

// Error kinds beyond the odds package classification.
const (
	kindBadRequest  = "bad_request"
	kindRateLimited = "rate_limited"
	kindTimeout     = "timeout"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// EvaluateRequest is the body of POST /api/v1/evaluate.
type EvaluateRequest struct {
	Legs       [][]float64 `json:"legs" validate:"required,min=1"`
	FinalOdds  float64     `json:"final_odds" validate:"required"`
	Bankroll   *float64    `json:"bankroll,omitempty"`
	Multiplier *float64    `json:"multiplier,omitempty"`
}

func (r EvaluateRequest) betRequest() parlay.BetRequest {
	legs := make([]parlay.Leg, len(r.Legs))
	for i, quoted := range r.Legs {
		legs[i] = parlay.Leg{Odds: quoted}
	}
	return parlay.BetRequest{
		Legs:       legs,
		FinalOdds:  r.FinalOdds,
		Bankroll:   r.Bankroll,
		Multiplier: r.Multiplier,
	}
}

// ConvertRequest is the body of POST /api/v1/convert.
type ConvertRequest struct {
	Value float64 `json:"value" validate:"required"`
	From  string  `json:"from" validate:"required"`
	To    string  `json:"to" validate:"required"`
}

// ConvertResponse is the result of an odds conversion.
type ConvertResponse struct {
	Value  float64     `json:"value"`
	From   odds.Format `json:"from"`
	To     odds.Format `json:"to"`
	Result float64     `json:"result"`
}

// MarginRequest is the body of POST /api/v1/margin. Method optionally
// restricts the devigged output to one method.
type MarginRequest struct {
	Odds   []float64 `json:"odds" validate:"required"`
	Method string    `json:"method,omitempty"`
}

// MarginResponse reports the overround of one market and its fair
// probabilities under each requested method.
type MarginResponse struct {
	Odds                 []float64                 `json:"odds"`
	ImpliedProbabilities []float64                 `json:"implied_probabilities"`
	Margin               float64                   `json:"margin"`
	MarginPercent        float64                   `json:"margin_percent"`
	Fair                 map[odds.Method][]float64 `json:"fair"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if !s.decode(w, r, &body) {
		return
	}
	if len(body.Legs) > s.settings.API.MaxLegs {
		respondError(w, http.StatusBadRequest, kindBadRequest, fmt.Sprintf("at most %d legs per request, got %d", s.settings.API.MaxLegs, len(body.Legs)))
		return
	}

	req := body.betRequest()
	if req.Bankroll == nil && req.Multiplier == nil {
		req.Bankroll, req.Multiplier = s.settings.DefaultStakeInputs()
	}
	if req.Multiplier != nil && *req.Multiplier > s.settings.Kelly.MaxMultiplier {
		respondFailure(w, odds.NewConfigurationError("multiplier", fmt.Sprintf("must not exceed %g", s.settings.Kelly.MaxMultiplier)))
		return
	}

	key, keyErr := cacheKey(req)
	if keyErr == nil {
		if report, ok := s.cache.Get(key); ok {
			metrics.RecordCacheHit()
			w.Header().Set(cacheHeader, "HIT")
			respondJSON(w, http.StatusOK, report)
			return
		}
	}

	report, err := s.evaluator.Evaluate(r.Context(), req)
	if err != nil {
		respondFailure(w, err)
		return
	}

	if keyErr == nil {
		s.cache.Set(key, report)
	}
	w.Header().Set(cacheHeader, "MISS")
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var body ConvertRequest
	if !s.decode(w, r, &body) {
		return
	}

	from, err := odds.ParseFormat(body.From)
	if err != nil {
		respondFailure(w, err)
		return
	}
	to, err := odds.ParseFormat(body.To)
	if err != nil {
		respondFailure(w, err)
		return
	}

	result, err := odds.Convert(body.Value, from, to)
	if err != nil {
		respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ConvertResponse{
		Value:  body.Value,
		From:   from,
		To:     to,
		Result: result,
	})
}

func (s *Server) handleMargin(w http.ResponseWriter, r *http.Request) {
	var body MarginRequest
	if !s.decode(w, r, &body) {
		return
	}

	methods := odds.Methods()
	if body.Method != "" {
		method, err := odds.ParseMethod(body.Method)
		if err != nil {
			respondFailure(w, err)
			return
		}
		methods = []odds.Method{method}
	}

	probs, err := odds.ImpliedProbabilities(body.Odds)
	if err != nil {
		respondFailure(w, err)
		return
	}
	margin, err := odds.ComputeMargin(body.Odds)
	if err != nil {
		respondFailure(w, err)
		return
	}

	fair := make(map[odds.Method][]float64, len(methods))
	for _, method := range methods {
		devigged, err := s.solver.Devig(probs, margin, method)
		if err != nil {
			respondFailure(w, fmt.Errorf("%s method: %w", method, err))
			return
		}
		fair[method] = devigged
	}

	respondJSON(w, http.StatusOK, MarginResponse{
		Odds:                 body.Odds,
		ImpliedProbabilities: probs,
		Margin:               margin,
		MarginPercent:        odds.Round(margin*100, 2),
		Fair:                 fair,
	})
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, kindBadRequest, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, kindBadRequest, describeValidation(err))
		return false
	}
	return true
}

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Sprintf("validation failed: %v", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed on the '%s' tag", fe.Field(), fe.Tag()))
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// respondFailure maps a core error to its HTTP status.
func respondFailure(w http.ResponseWriter, err error) {
	kind := odds.Kind(err)
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status, kind = http.StatusServiceUnavailable, kindTimeout
	case kind == "invalid_odds", kind == "configuration":
		status = http.StatusBadRequest
	case kind == "convergence":
		status = http.StatusUnprocessableEntity
	}

	respondError(w, status, kind, err.Error())
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Kind: kind})
}
