package auth

import (
	"net/http"
	"regexp"
	"strings"
)

// challenge is one WWW-Authenticate entry.
type challenge struct {
	Scheme string
	Realm  string
}

var realmParam = regexp.MustCompile(`(?i)\brealm\s*=\s*(?:"([^"]*)"|([^\s,]+))`)

// parseChallenges reads the WWW-Authenticate headers of a 401 response.
// Each header value is treated as a single challenge.
func parseChallenges(h http.Header) []challenge {
	var out []challenge
	for _, v := range h.Values("Www-Authenticate") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		scheme, params, _ := strings.Cut(v, " ")
		ch := challenge{Scheme: strings.ToLower(scheme)}
		if m := realmParam.FindStringSubmatch(params); m != nil {
			ch.Realm = m[1]
			if ch.Realm == "" {
				ch.Realm = m[2]
			}
		}
		out = append(out, ch)
	}
	return out
}
