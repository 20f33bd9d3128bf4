package credentials

import "strings"

// AppliesTo reports whether the credentials cover host and port. An absent
// Host matches every host and PortUnspecified matches every port.
func (c *Credentials) AppliesTo(host string, port int) bool {
	if c.Host != nil && !strings.EqualFold(strings.TrimSuffix(*c.Host, "."), strings.TrimSuffix(host, ".")) {
		return false
	}
	if c.Port != PortUnspecified && c.Port != port {
		return false
	}
	return true
}

// AcceptsScheme reports whether a challenge scheme fits AuthType.
// AuthUnspecified accepts any scheme.
func (c *Credentials) AcceptsScheme(scheme string) bool {
	scheme = strings.ToLower(strings.TrimSpace(scheme))
	switch c.AuthType {
	case AuthNormal:
		return scheme == "basic" || scheme == "digest"
	case AuthNTLM:
		return scheme == "ntlm" || scheme == "negotiate"
	default:
		return true
	}
}

// AcceptsRealm reports whether realm matches. An absent Realm accepts any.
func (c *Credentials) AcceptsRealm(realm string) bool {
	return c.Realm == nil || *c.Realm == realm
}
