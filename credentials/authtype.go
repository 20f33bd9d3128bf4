package credentials

import (
	"fmt"
	"strings"
)

// AuthType selects the HTTP authentication scheme.
type AuthType int

const (
	// AuthUnspecified means no explicit scheme was chosen. It is the zero value.
	AuthUnspecified AuthType = iota
	// AuthNormal is standard HTTP authentication.
	AuthNormal
	// AuthNTLM is NTLM ("Windows") authentication.
	AuthNTLM
)

var authTypeNames = map[AuthType]string{
	AuthUnspecified: "UNSPECIFIED",
	AuthNormal:      "NORMAL",
	AuthNTLM:        "NTLM",
}

// String returns the upper-cased wire name.
func (t AuthType) String() string {
	if name, ok := authTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AuthType(%d)", int(t))
}

// ParseAuthType matches s case-insensitively against the known names.
func ParseAuthType(s string) (AuthType, error) {
	for t, name := range authTypeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return AuthUnspecified, fmt.Errorf("%w: unknown auth type %q", ErrInvalidArgument, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t AuthType) MarshalText() ([]byte, error) {
	if _, ok := authTypeNames[t]; !ok {
		return nil, fmt.Errorf("%w: unknown auth type %d", ErrInvalidArgument, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *AuthType) UnmarshalText(text []byte) error {
	parsed, err := ParseAuthType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
