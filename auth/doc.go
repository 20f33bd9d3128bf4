// Package auth turns driver credentials into authenticating HTTP transports.
//
// # Supported Authentication Methods
//
//   - Normal: HTTP Basic authentication (use only over TLS)
//   - NTLM: NT LAN Manager authentication (via github.com/Azure/go-ntlmssp)
//   - Unspecified: Negotiate-style; NTLM when the server asks for it,
//     Basic otherwise
//
// Requests to hosts or ports outside the credentials' scope pass through
// unauthenticated.
//
// # Usage
//
//	creds := credentials.New(
//	    credentials.WithAuthType(credentials.AuthNTLM),
//	    credentials.WithUsername("administrator"),
//	    credentials.WithPassword("password"),
//	    credentials.WithNTLMDomain("DOMAIN"),
//	)
//	a, err := auth.New(creds, auth.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	client := &http.Client{Transport: a.Transport(http.DefaultTransport)}
package auth
