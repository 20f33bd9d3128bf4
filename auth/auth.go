package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/smnsjas/go-webcreds/credentials"
)

// ErrNoUsername is returned when credentials carry no user name.
var ErrNoUsername = errors.New("auth: username is required")

// Authenticator defines the interface for authentication handlers.
type Authenticator interface {
	// Transport wraps an http.RoundTripper with authentication.
	Transport(base http.RoundTripper) http.RoundTripper

	// Name returns the authentication scheme name.
	Name() string
}

// Option configures New.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for security events and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New picks an Authenticator for c.AuthType: Basic for AuthNormal, NTLM for
// AuthNTLM and Negotiate for AuthUnspecified.
func New(c *credentials.Credentials, opts ...Option) (Authenticator, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil credentials", credentials.ErrInvalidArgument)
	}
	if c.Username == nil || *c.Username == "" {
		return nil, ErrNoUsername
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch c.AuthType {
	case credentials.AuthNormal:
		a := NewBasicAuth(c)
		a.setLogger(o.logger)
		return a, nil
	case credentials.AuthNTLM:
		a := NewNTLMAuth(c)
		a.setLogger(o.logger)
		return a, nil
	default:
		a := NewNegotiateAuth(c)
		a.setLogger(o.logger)
		return a, nil
	}
}

// inScope reports whether the credentials cover the request URL.
func inScope(c *credentials.Credentials, u *url.URL) bool {
	return c.AppliesTo(u.Hostname(), effectivePort(u))
}

// effectivePort returns the explicit URL port or the scheme default.
func effectivePort(u *url.URL) int {
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	if u.Scheme == "https" || u.Scheme == "wss" {
		return 443
	}
	return 80
}

func password(c *credentials.Credentials) string {
	if c.Password == nil {
		return ""
	}
	return *c.Password
}

func username(c *credentials.Credentials) string {
	if c.Username == nil {
		return ""
	}
	return *c.Username
}
