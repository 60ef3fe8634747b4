package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AccessLogger records API requests.
type AccessLogger struct {
	*logrus.Entry
}

// NewAccessLogger creates a new access logger.
func NewAccessLogger(baseLogger *logrus.Logger) *AccessLogger {
	return &AccessLogger{
		Entry: baseLogger.WithField("component", "api"),
	}
}

// LogRequest logs a served request.
func (al *AccessLogger) LogRequest(requestID, method, path string, status int, duration time.Duration, cached bool) {
	entry := al.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": float64(duration.Microseconds()) / 1000,
		"cached":      cached,
	})
	if status >= 500 {
		entry.Error("Request failed")
		return
	}
	entry.Info("Request served")
}

// LogRateLimited logs a request rejected by the limiter.
func (al *AccessLogger) LogRateLimited(requestID, remoteAddr, path string) {
	al.WithFields(logrus.Fields{
		"request_id":  requestID,
		"remote_addr": remoteAddr,
		"path":        path,
	}).Warn("Request rate limited")
}
