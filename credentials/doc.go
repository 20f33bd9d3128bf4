// Package credentials models the HTTP authentication credentials a browser
// driver presents when a remote resource challenges it.
//
// A Credentials value is built either field by field with New and its
// options, or in one shot from an untyped settings map with FromMap. Map
// produces the canonical wire form, and Extract locates a credentials entry
// inside a decoded capabilities bag.
//
// # Coercion Rules
//
// FromMap is strict about the authentication scheme and lenient about
// everything else:
//
//   - authType is matched case-insensitively against NORMAL, NTLM and
//     UNSPECIFIED; any other name fails with ErrInvalidArgument.
//   - port accepts integers and integer strings. Anything that does not
//     parse becomes PortUnspecified without an error.
//   - the remaining keys take the value's string representation verbatim.
//
// # Port Sentinel
//
// Port uses -1 (PortUnspecified) for "no port". An explicitly configured -1
// cannot be told apart from an absent port and is omitted from Map.
//
// # Secrets
//
// Password is never rendered by String or LogValue:
//
//	slog.Info("using credentials", "creds", c) // password=[REDACTED]
package credentials
