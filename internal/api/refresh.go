package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/packetapp/packet-go/internal/metrics"
)

// withRefresh runs an authenticated action under the refresh-on-401 policy:
// read the current access token (failing fast with ErrNotLoggedIn before any
// network I/O), run the action, and on ErrTokenInvalid exchange the refresh
// token for a new pair and retry the action exactly once. Any other error,
// or a second token failure, propagates unchanged.
//
// Every authenticated method of the client goes through here; none bypasses
// the policy.
func (c *Client) withRefresh(ctx context.Context, op string, action func(accessToken string) error) error {
	token, ok := c.store.AccessToken()
	if !ok {
		c.record(op, ErrNotLoggedIn)
		return ErrNotLoggedIn
	}

	// Refresh up front when the JWT is already past (or within leeway of)
	// its exp claim; saves a doomed round trip. The 401 path below remains
	// the backstop for opaque or revoked tokens.
	if tokenExpired(token, c.leeway) {
		if err := c.refreshSession(ctx); err != nil {
			c.record(op, err)
			return err
		}
		token, _ = c.store.AccessToken()
	}

	err := action(token)
	if errors.Is(err, ErrTokenInvalid) {
		if rerr := c.refreshSession(ctx); rerr != nil {
			c.record(op, rerr)
			return rerr
		}
		token, _ = c.store.AccessToken()
		err = action(token)
	}
	c.record(op, err)
	return err
}

// refreshSession exchanges the stored refresh token for a new pair and
// persists it. A failed exchange clears the session: the pair is unusable
// and the user has to authenticate again.
func (c *Client) refreshSession(ctx context.Context) error {
	refresh, ok := c.store.RefreshToken()
	if !ok {
		return ErrNoRefreshToken
	}

	resp, err := c.Refresh(ctx, refresh)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		if cerr := c.store.Clear(); cerr != nil {
			slog.Warn("failed to clear session after refresh failure", "error", cerr)
		}
		return fmt.Errorf("token refresh failed: %w", err)
	}

	if err := c.store.Save(resp.Token, resp.RefreshToken, resp.User.ID, resp.User.Name, resp.User.Email); err != nil {
		return fmt.Errorf("failed to persist refreshed session: %w", err)
	}
	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	slog.Debug("access token refreshed", "user_id", resp.User.ID)
	return nil
}

// tokenExpired reports whether a JWT access token is expired or expires
// within leeway. Tokens that do not parse as JWTs, or carry no exp claim,
// are treated as live and left for the server to judge.
func tokenExpired(token string, leeway time.Duration) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Now().Add(leeway).After(claims.ExpiresAt.Time)
}
