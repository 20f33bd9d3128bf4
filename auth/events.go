package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Security event outcomes
const (
	OutcomeAttempt = "attempt"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// SecurityEvent is a structured record of credentials being presented.
// It never carries the password.
type SecurityEvent struct {
	Timestamp     string `json:"timestamp"` // ISO 8601 UTC
	Scheme        string `json:"scheme"`
	User          string `json:"user,omitempty"`
	Target        string `json:"target"`
	CorrelationID string `json:"correlation_id"`
	Outcome       string `json:"outcome"`
	Status        int    `json:"status,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// String returns the JSON representation of the event.
func (e *SecurityEvent) String() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// EventLogger writes security events for one authenticator.
// A nil EventLogger, or one without a logger, drops events.
type EventLogger struct {
	logger        *slog.Logger
	scheme        string
	user          string
	correlationID string
}

// NewEventLogger creates a logger with a fresh correlation ID.
func NewEventLogger(logger *slog.Logger, scheme, user string) *EventLogger {
	return &EventLogger{
		logger:        logger,
		scheme:        scheme,
		user:          user,
		correlationID: uuid.New().String(),
	}
}

// CorrelationID returns the ID shared by all events from this logger.
func (l *EventLogger) CorrelationID() string {
	if l == nil {
		return ""
	}
	return l.correlationID
}

// Log records one event. Failures log at warn level, the rest at info
// (attempts at debug).
func (l *EventLogger) Log(outcome, target string, status int, reason string) {
	if l == nil || l.logger == nil {
		return
	}

	event := &SecurityEvent{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Scheme:        l.scheme,
		User:          l.user,
		Target:        target,
		CorrelationID: l.correlationID,
		Outcome:       outcome,
		Status:        status,
		Reason:        reason,
	}

	switch outcome {
	case OutcomeFailure:
		l.logger.Warn("SecurityEvent", "event", event)
	case OutcomeAttempt, OutcomeSkipped:
		l.logger.Debug("SecurityEvent", "event", event)
	default:
		l.logger.Info("SecurityEvent", "event", event)
	}
}

// logResult records success or failure from a response status.
func (l *EventLogger) logResult(target string, res *http.Response, err error) {
	switch {
	case err != nil:
		l.Log(OutcomeFailure, target, 0, err.Error())
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusProxyAuthRequired:
		l.Log(OutcomeFailure, target, res.StatusCode, "rejected")
	default:
		l.Log(OutcomeSuccess, target, res.StatusCode, "")
	}
}
