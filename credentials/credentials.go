package credentials

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// PortUnspecified is the Port value meaning "no port".
const PortUnspecified = -1

// Keys used by FromMap and Map.
const (
	KeyAuthType        = "authType"
	KeyUsername        = "username"
	KeyPassword        = "password"
	KeyHost            = "host"
	KeyPort            = "port"
	KeyRealm           = "realm"
	KeyNTLMWorkstation = "ntlmWorkstation"
	KeyNTLMDomain      = "ntlmDomain"
)

const redacted = "[REDACTED]"

// Credentials holds the settings a driver uses to answer an HTTP
// authentication challenge. Nil string fields are absent.
//
// Use New rather than a struct literal: the zero value has Port 0, which is
// a present port.
//
// A Credentials is not safe for concurrent mutation. Treat it as read-only
// once a session has started.
type Credentials struct {
	// AuthType is the authentication scheme. Defaults to AuthUnspecified.
	AuthType AuthType

	// Username is the user name for authentication.
	Username *string

	// Password is the secret for authentication. It is never logged.
	Password *string

	// Host restricts the credentials to one host.
	Host *string

	// Port restricts the credentials to one port. PortUnspecified means any.
	Port int

	// Realm is the authentication realm for Normal auth.
	Realm *string

	// NTLMWorkstation is the workstation name for NTLM auth.
	NTLMWorkstation *string

	// NTLMDomain is the Windows domain for NTLM auth.
	NTLMDomain *string
}

// Option configures a Credentials built by New.
type Option func(*Credentials)

// WithAuthType sets the authentication scheme.
func WithAuthType(t AuthType) Option {
	return func(c *Credentials) { c.AuthType = t }
}

// WithUsername sets the user name.
func WithUsername(username string) Option {
	return func(c *Credentials) { c.Username = &username }
}

// WithPassword sets the password.
func WithPassword(password string) Option {
	return func(c *Credentials) { c.Password = &password }
}

// WithHost sets the host the credentials apply to.
func WithHost(host string) Option {
	return func(c *Credentials) { c.Host = &host }
}

// WithPort sets the port the credentials apply to. PortUnspecified clears it.
func WithPort(port int) Option {
	return func(c *Credentials) { c.Port = port }
}

// WithRealm sets the authentication realm.
func WithRealm(realm string) Option {
	return func(c *Credentials) { c.Realm = &realm }
}

// WithNTLMWorkstation sets the NTLM workstation.
func WithNTLMWorkstation(workstation string) Option {
	return func(c *Credentials) { c.NTLMWorkstation = &workstation }
}

// WithNTLMDomain sets the NTLM domain.
func WithNTLMDomain(domain string) Option {
	return func(c *Credentials) { c.NTLMDomain = &domain }
}

// New returns credentials with an unspecified scheme, no port and every
// optional field absent, then applies opts in order.
func New(opts ...Option) *Credentials {
	c := &Credentials{
		AuthType: AuthUnspecified,
		Port:     PortUnspecified,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromMap builds credentials from a loosely typed settings map, such as one
// decoded from a capabilities payload. Keys that are missing or nil keep
// their defaults.
//
// It fails only when raw is nil or authType names an unknown scheme. A port
// that is not an integer is treated as PortUnspecified.
func FromMap(raw map[string]any) (*Credentials, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: settings map is nil", ErrInvalidArgument)
	}

	c := New()

	if v, ok := lookup(raw, KeyAuthType); ok {
		t, err := ParseAuthType(fmt.Sprint(v))
		if err != nil {
			return nil, err
		}
		c.AuthType = t
	}

	c.Username = stringField(raw, KeyUsername)
	c.Password = stringField(raw, KeyPassword)
	c.Host = stringField(raw, KeyHost)
	c.Realm = stringField(raw, KeyRealm)
	c.NTLMWorkstation = stringField(raw, KeyNTLMWorkstation)
	c.NTLMDomain = stringField(raw, KeyNTLMDomain)

	if v, ok := lookup(raw, KeyPort); ok {
		c.Port = coercePort(v)
	}

	return c, nil
}

func lookup(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func stringField(raw map[string]any, key string) *string {
	v, ok := lookup(raw, key)
	if !ok {
		return nil
	}
	s := fmt.Sprint(v)
	return &s
}

// coercePort uses integer kinds directly and parses everything else from its
// string form, falling back to PortUnspecified.
func coercePort(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < math.MinInt || n > math.MaxInt {
			return PortUnspecified
		}
		return int(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := rv.Uint()
		if n > math.MaxInt {
			return PortUnspecified
		}
		return int(n)
	}

	port, err := strconv.Atoi(fmt.Sprint(v))
	if err != nil {
		return PortUnspecified
	}
	return port
}

// Map returns the canonical wire form. authType is always present; other
// keys appear only when the field is present. port is an int.
func (c *Credentials) Map() map[string]any {
	m := map[string]any{
		KeyAuthType: c.AuthType.String(),
	}
	putString(m, KeyUsername, c.Username)
	putString(m, KeyPassword, c.Password)
	putString(m, KeyHost, c.Host)
	if c.Port != PortUnspecified {
		m[KeyPort] = c.Port
	}
	putString(m, KeyRealm, c.Realm)
	putString(m, KeyNTLMWorkstation, c.NTLMWorkstation)
	putString(m, KeyNTLMDomain, c.NTLMDomain)
	return m
}

func putString(m map[string]any, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

// Clone returns a deep copy.
func (c *Credentials) Clone() *Credentials {
	out := *c
	out.Username = clonePtr(c.Username)
	out.Password = clonePtr(c.Password)
	out.Host = clonePtr(c.Host)
	out.Realm = clonePtr(c.Realm)
	out.NTLMWorkstation = clonePtr(c.NTLMWorkstation)
	out.NTLMDomain = clonePtr(c.NTLMDomain)
	return &out
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// NTLMUser returns the user name in DOMAIN\user form when a domain is set.
func (c *Credentials) NTLMUser() string {
	user := deref(c.Username)
	if domain := deref(c.NTLMDomain); domain != "" {
		return domain + `\` + user
	}
	return user
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MarshalJSON implements json.Marshaler using the canonical form.
func (c *Credentials) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}

// UnmarshalJSON implements json.Unmarshaler with the FromMap rules.
// A JSON null is rejected.
func (c *Credentials) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode credentials: %w", err)
	}
	parsed, err := FromMap(raw)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// LogValue implements slog.LogValuer. The password is redacted.
func (c *Credentials) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 8)
	c.visit(func(key string, value any) {
		attrs = append(attrs, slog.Any(key, value))
	})
	return slog.GroupValue(attrs...)
}

// String renders the credentials with the password redacted.
func (c *Credentials) String() string {
	var b strings.Builder
	b.WriteString("Credentials{")
	first := true
	c.visit(func(key string, value any) {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&b, "%s=%v", key, value)
	})
	b.WriteByte('}')
	return b.String()
}

// visit walks the present fields in a stable order, redacting the password.
func (c *Credentials) visit(fn func(key string, value any)) {
	m := c.Map()
	if _, ok := m[KeyPassword]; ok {
		m[KeyPassword] = redacted
	}
	for _, key := range []string{
		KeyAuthType, KeyUsername, KeyPassword, KeyHost, KeyPort,
		KeyRealm, KeyNTLMWorkstation, KeyNTLMDomain,
	} {
		if v, ok := m[key]; ok {
			fn(key, v)
		}
	}
}
