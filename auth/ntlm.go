package auth

import (
	"log/slog"
	"net/http"

	"github.com/Azure/go-ntlmssp"
	"github.com/smnsjas/go-webcreds/credentials"
)

// NTLMAuth implements NTLM authentication. The same handshake backs
// NegotiateAuth, which additionally answers Basic challenges.
//
// With NTLM the credentials only ever travel inside an NTLM or Negotiate
// exchange; a Basic-only server gets the anonymous 401 back.
type NTLMAuth struct {
	name       string
	allowBasic bool
	creds      *credentials.Credentials
	events     *EventLogger
}

// NewNTLMAuth creates a new NTLM authentication handler.
func NewNTLMAuth(creds *credentials.Credentials) *NTLMAuth {
	a := &NTLMAuth{name: "NTLM", creds: creds}
	a.setLogger(nil)
	return a
}

// NewNegotiateAuth creates a handler for credentials without an explicit
// scheme: NTLM when the server asks for NTLM or Negotiate, Basic otherwise.
func NewNegotiateAuth(creds *credentials.Credentials) *NTLMAuth {
	a := &NTLMAuth{name: "Negotiate", allowBasic: true, creds: creds}
	a.setLogger(nil)
	return a
}

func (a *NTLMAuth) setLogger(logger *slog.Logger) {
	a.events = NewEventLogger(logger, a.name, a.creds.NTLMUser())
}

// Name returns the authentication scheme name.
func (a *NTLMAuth) Name() string {
	return a.name
}

// Transport wraps an http.RoundTripper with NTLM authentication.
// Uses github.com/Azure/go-ntlmssp for the NTLM handshake.
func (a *NTLMAuth) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &scopedTransport{
		creds: a.creds,
		plain: base,
		authed: &credentialsRoundTripper{
			creds: a.creds,
			base: ntlmssp.Negotiator{
				RoundTripper:   base,
				AllowBasicAuth: a.allowBasic,
			},
			events: a.events,
		},
		events: a.events,
	}
}

// scopedTransport sends in-scope requests through authed and the rest
// through plain.
type scopedTransport struct {
	creds  *credentials.Credentials
	plain  http.RoundTripper
	authed http.RoundTripper
	events *EventLogger
}

// RoundTrip implements http.RoundTripper.
func (t *scopedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !inScope(t.creds, req.URL) {
		t.events.Log(OutcomeSkipped, req.URL.Host, 0, "out of scope")
		return t.plain.RoundTrip(req)
	}
	return t.authed.RoundTrip(req)
}

// credentialsRoundTripper hands the credentials to ntlmssp.Negotiator,
// which reads them from the Basic auth header.
type credentialsRoundTripper struct {
	creds  *credentials.Credentials
	base   http.RoundTripper
	events *EventLogger
}

// RoundTrip implements http.RoundTripper.
func (t *credentialsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	reqCopy.SetBasicAuth(t.creds.NTLMUser(), password(t.creds))

	t.events.Log(OutcomeAttempt, req.URL.Host, 0, "")
	res, err := t.base.RoundTrip(reqCopy)
	t.events.logResult(req.URL.Host, res, err)
	return res, err
}
