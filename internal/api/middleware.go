package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/yourusername/fairline/internal/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	cacheHeader     = "X-Cache"
)

type contextKey int

const requestIDKey contextKey = iota

// RequestIDFromContext returns the request ID assigned by the server, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID keeps a caller supplied UUID or assigns a new one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		metrics.RecordAPIRequest(route, status)
		s.access.LogRequest(RequestIDFromContext(r.Context()), r.Method, r.URL.Path, status,
			time.Since(start), ww.Header().Get(cacheHeader) == "HIT")
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.access.LogRateLimited(RequestIDFromContext(r.Context()), r.RemoteAddr, r.URL.Path)
			respondError(w, http.StatusTooManyRequests, kindRateLimited, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
