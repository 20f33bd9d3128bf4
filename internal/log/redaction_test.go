package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/smnsjas/go-webcreds/credentials"
)

// lookupPath walks a decoded JSON log line along a dotted key.
func lookupPath(result map[string]any, key string) (any, bool) {
	var val any = result
	for _, part := range strings.Split(key, ".") {
		m, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		if val, ok = m[part]; !ok {
			return nil, false
		}
	}
	return val, true
}

func TestRedactingHandler(t *testing.T) {
	tests := []struct {
		name     string
		args     []any
		expected map[string]any
	}{
		{
			name: "sensitive keys are redacted",
			args: []any{
				slog.String("password", "secret123"),
				slog.String("api_token", "abcdef"),
				slog.String("username", "admin"),
			},
			expected: map[string]any{
				"password":  Redacted,
				"api_token": Redacted,
				"username":  "admin",
			},
		},
		{
			name: "case insensitive matching",
			args: []any{
				slog.String("ProxyPassword", "secret"),
				slog.String("NT_HASH", "xyz"),
			},
			expected: map[string]any{
				"ProxyPassword": Redacted,
				"NT_HASH":       Redacted,
			},
		},
		{
			name: "auth type stays readable",
			args: []any{
				slog.String("authType", "NTLM"),
				slog.String("credentials_key", "credentials"),
			},
			expected: map[string]any{
				"authType":        "NTLM",
				"credentials_key": "credentials",
			},
		},
		{
			name: "nested groups are redacted",
			args: []any{
				slog.Group("proxy",
					slog.String("password", "hidden"),
					slog.String("user", "visible"),
				),
			},
			expected: map[string]any{
				"proxy.password": Redacted,
				"proxy.user":     "visible",
			},
		},
		{
			name: "log valuers are resolved",
			args: []any{
				"creds", credentials.New(
					credentials.WithAuthType(credentials.AuthNormal),
					credentials.WithUsername("alice"),
					credentials.WithPassword("hidden"),
					credentials.WithPort(8080),
				),
			},
			expected: map[string]any{
				"creds.authType": "NORMAL",
				"creds.username": "alice",
				"creds.password": Redacted,
				"creds.port":     float64(8080),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))
			logger.Info("test message", tt.args...)

			if strings.Contains(buf.String(), "hidden") || strings.Contains(buf.String(), "secret") {
				t.Errorf("output leaked a secret: %s", buf.String())
			}

			var result map[string]any
			if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
				t.Fatalf("failed to parse log output: %v", err)
			}
			for k, want := range tt.expected {
				got, ok := lookupPath(result, k)
				if !ok {
					t.Errorf("key %s not found in output", k)
					continue
				}
				if got != want {
					t.Errorf("key %s: got %v, want %v", k, got, want)
				}
			}
		})
	}
}

func TestRedactingHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewTextHandler(&buf, nil))).
		With("password", "hunter2").
		WithGroup("req")
	logger.Info("probe", "token", "abc", "host", "example.com")

	out := buf.String()
	for _, leak := range []string{"hunter2", "abc"} {
		if strings.Contains(out, leak) {
			t.Errorf("output leaked %q: %s", leak, out)
		}
	}
	if !strings.Contains(out, "req.host=example.com") {
		t.Errorf("output missing grouped host: %s", out)
	}
}

func TestIsSensitive(t *testing.T) {
	for key, want := range map[string]bool{
		"password":      true,
		"Passwd":        true,
		"client_secret": true,
		"username":      false,
		"authType":      false,
		"ntlmDomain":    false,
	} {
		if got := IsSensitive(key); got != want {
			t.Errorf("IsSensitive(%q) = %v, want %v", key, got, want)
		}
	}
}
