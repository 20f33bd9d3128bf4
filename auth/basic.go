package auth

import (
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/smnsjas/go-webcreds/credentials"
)

// BasicAuth implements HTTP Basic authentication for AuthNormal credentials.
type BasicAuth struct {
	creds  *credentials.Credentials
	logger *slog.Logger
	events *EventLogger
}

// NewBasicAuth creates a new Basic authentication handler.
func NewBasicAuth(creds *credentials.Credentials) *BasicAuth {
	a := &BasicAuth{creds: creds}
	a.setLogger(nil)
	return a
}

func (a *BasicAuth) setLogger(logger *slog.Logger) {
	a.logger = logger
	a.events = NewEventLogger(logger, a.Name(), username(a.creds))
}

// Name returns the authentication scheme name.
func (a *BasicAuth) Name() string {
	return "Basic"
}

// Transport wraps an http.RoundTripper with Basic authentication.
func (a *BasicAuth) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &basicTransport{
		base:   base,
		creds:  a.creds,
		logger: a.logger,
		events: a.events,
	}
}

// basicTransport adds the Basic auth header to in-scope requests.
// Without a realm the header is sent preemptively; with one it is sent only
// in answer to a matching challenge.
type basicTransport struct {
	base     http.RoundTripper
	creds    *credentials.Credentials
	logger   *slog.Logger
	events   *EventLogger
	warnOnce sync.Once
}

// RoundTrip implements http.RoundTripper.
func (t *basicTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !inScope(t.creds, req.URL) {
		t.events.Log(OutcomeSkipped, req.URL.Host, 0, "out of scope")
		return t.base.RoundTrip(req)
	}

	// Warn if using Basic auth over non-HTTPS (credentials are easily readable)
	if req.URL.Scheme != "https" && t.logger != nil {
		t.warnOnce.Do(func() {
			t.logger.Warn("basic authentication over non-HTTPS connection, credentials are not encrypted",
				"host", req.URL.Host)
		})
	}

	if t.creds.Realm == nil || !replayable(req) {
		return t.send(req, false)
	}

	res, err := t.base.RoundTrip(req)
	if err != nil || res.StatusCode != http.StatusUnauthorized {
		return res, err
	}
	if !t.wantsCredentials(res) {
		return res, nil
	}

	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()

	return t.send(req, true)
}

// wantsCredentials reports whether a 401 carries a Basic challenge for our realm.
func (t *basicTransport) wantsCredentials(res *http.Response) bool {
	for _, ch := range parseChallenges(res.Header) {
		if ch.Scheme == "basic" && t.creds.AcceptsRealm(ch.Realm) {
			return true
		}
	}
	return false
}

// send clones req and adds the Authorization header. A retry rewinds the
// body, which the first attempt consumed.
func (t *basicTransport) send(req *http.Request, retry bool) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	if retry && req.GetBody != nil && req.Body != nil && req.Body != http.NoBody {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		reqCopy.Body = body
	}
	reqCopy.SetBasicAuth(username(t.creds), password(t.creds))

	t.events.Log(OutcomeAttempt, req.URL.Host, 0, "")
	res, err := t.base.RoundTrip(reqCopy)
	t.events.logResult(req.URL.Host, res, err)
	return res, err
}

// replayable reports whether req can be sent twice.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}
