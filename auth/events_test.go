package auth

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/smnsjas/go-webcreds/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLogger_NilSafe(t *testing.T) {
	var l *EventLogger
	l.Log(OutcomeSuccess, "host", 200, "")
	assert.Empty(t, l.CorrelationID())

	NewEventLogger(nil, "Basic", "u").Log(OutcomeFailure, "host", 401, "rejected")
}

func TestEventLogger_CorrelationID(t *testing.T) {
	a := NewEventLogger(nil, "Basic", "u")
	b := NewEventLogger(nil, "Basic", "u")

	_, err := uuid.Parse(a.CorrelationID())
	require.NoError(t, err)
	assert.NotEqual(t, a.CorrelationID(), b.CorrelationID())
}

func TestSecurityEvent_String(t *testing.T) {
	e := &SecurityEvent{Scheme: "NTLM", Target: "h:80", Outcome: OutcomeSuccess, Status: 200}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.String()), &decoded))
	assert.Equal(t, "NTLM", decoded["scheme"])
	assert.NotContains(t, decoded, "user")
}

// TestBasicAuth_SecurityEvents verifies events are written without the password.
func TestBasicAuth_SecurityEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	creds := credentials.New(
		credentials.WithAuthType(credentials.AuthNormal),
		credentials.WithUsername("alice"),
		credentials.WithPassword("TopSecret!"),
	)
	a, err := New(creds, WithLogger(logger))
	require.NoError(t, err)

	client := &http.Client{Transport: a.Transport(nil)}
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	out := buf.String()
	assert.NotContains(t, out, "TopSecret!")
	assert.Contains(t, out, "non-HTTPS")

	var outcomes []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var rec struct {
			Msg   string        `json:"msg"`
			Event SecurityEvent `json:"event"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if rec.Msg != "SecurityEvent" {
			continue
		}
		assert.Equal(t, "alice", rec.Event.User)
		assert.Equal(t, "Basic", rec.Event.Scheme)
		outcomes = append(outcomes, rec.Event.Outcome)
	}
	assert.Equal(t, []string{OutcomeAttempt, OutcomeFailure}, outcomes)
}
