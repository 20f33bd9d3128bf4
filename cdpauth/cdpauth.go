// Package cdpauth answers HTTP authentication challenges raised inside a
// chromedp browser from driver credentials.
package cdpauth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/chromedp"
	"github.com/smnsjas/go-webcreds/credentials"
)

// Respond decides how to answer an authentication challenge. Credentials
// are provided only when the challenge origin, scheme and realm fall within
// c's scope; otherwise the browser's default handling applies.
func Respond(c *credentials.Credentials, ch *fetch.AuthChallenge) *fetch.AuthChallengeResponse {
	if c == nil || ch == nil || c.Username == nil || !matches(c, ch) {
		return &fetch.AuthChallengeResponse{
			Response: fetch.AuthChallengeResponseResponseDefault,
		}
	}

	user := *c.Username
	if c.AuthType == credentials.AuthNTLM {
		user = c.NTLMUser()
	}
	pass := ""
	if c.Password != nil {
		pass = *c.Password
	}

	return &fetch.AuthChallengeResponse{
		Response: fetch.AuthChallengeResponseResponseProvideCredentials,
		Username: user,
		Password: pass,
	}
}

func matches(c *credentials.Credentials, ch *fetch.AuthChallenge) bool {
	host, port, ok := originHostPort(ch.Origin)
	if !ok {
		return false
	}
	return c.AppliesTo(host, port) && c.AcceptsScheme(ch.Scheme) && c.AcceptsRealm(ch.Realm)
}

// originHostPort splits a challenge origin such as "https://proxy:3128".
func originHostPort(origin string) (string, int, bool) {
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return "", 0, false
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, false
		}
		return u.Hostname(), n, true
	}
	if u.Scheme == "https" {
		return u.Hostname(), 443, true
	}
	return u.Hostname(), 80, true
}

// Enable makes the browser in ctx answer authentication challenges with c.
// ctx must come from chromedp.NewContext. Paused requests are resumed
// unchanged.
func Enable(ctx context.Context, c *credentials.Credentials, logger *slog.Logger) error {
	if c == nil {
		return fmt.Errorf("%w: nil credentials", credentials.ErrInvalidArgument)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *fetch.EventRequestPaused:
			go func() {
				if err := run(ctx, fetch.ContinueRequest(ev.RequestID)); err != nil {
					logger.Debug("continue request failed", "request_id", ev.RequestID, "error", err)
				}
			}()
		case *fetch.EventAuthRequired:
			resp := Respond(c, ev.AuthChallenge)
			if ch := ev.AuthChallenge; ch != nil {
				logger.Info("answering auth challenge",
					"origin", ch.Origin,
					"scheme", ch.Scheme,
					"realm", ch.Realm,
					"response", string(resp.Response))
			}
			go func() {
				if err := run(ctx, fetch.ContinueWithAuth(ev.RequestID, resp)); err != nil {
					logger.Warn("continue with auth failed", "request_id", ev.RequestID, "error", err)
				}
			}()
		}
	})

	if err := chromedp.Run(ctx, fetch.Enable().WithHandleAuthRequests(true)); err != nil {
		return fmt.Errorf("enable fetch domain: %w", err)
	}
	return nil
}

// run executes a CDP action against the current target from inside an
// event listener.
func run(ctx context.Context, action chromedp.Action) error {
	c := chromedp.FromContext(ctx)
	if c == nil || c.Target == nil {
		return fmt.Errorf("no chromedp target in context")
	}
	return action.Do(cdp.WithExecutor(ctx, c.Target))
}
