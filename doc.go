// Package webcreds models the HTTP authentication credentials a
// browser-automation driver presents when a remote resource challenges it.
//
// # Architecture
//
// The library is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  cmd/webcreds  Inspect and probe capabilities documents │
//	├─────────────────────────────────────────────────────────┤
//	│  auth/         http.RoundTripper wrappers (Basic, NTLM) │
//	│  cdpauth/      Chrome DevTools challenge answering      │
//	├─────────────────────────────────────────────────────────┤
//	│  credentials/  Credentials value, parsing, wire form    │
//	└─────────────────────────────────────────────────────────┘
//
// # Quick Start
//
//	caps := credentials.Capabilities{
//	    "browserName": "chrome",
//	    "credentials": map[string]any{
//	        "authType": "ntlm",
//	        "username": "bob",
//	        "port":     "8080",
//	    },
//	}
//	creds, err := credentials.Extract(caps)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	wire := creds.Map() // {"authType": "NTLM", "username": "bob", "port": 8080}
package webcreds
