package clinicsdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/clinic/pkg/session"
	"github.com/aussiebroadwan/clinic/pkg/validate"
)

// Login exchanges credentials for a token pair and stores the session. This
// is the only way a session comes into existence.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*session.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := c.call(ctx, http.MethodPost, PathLogin, req, &out); err != nil {
		return nil, err
	}

	err := c.sessions.SetSession(ctx, session.Session{
		AccessToken:  out.Access,
		RefreshToken: out.Refresh,
		User:         out.User,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	c.logger.Info("logged in", "user_id", out.User.ID)
	return out.User, nil
}

// Register creates a staff account. It does not log in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := c.call(ctx, http.MethodPost, PathRegister, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears the stored session and moves to the login route.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if c.nav != nil && !IsPublicRoute(c.nav.Location()) {
		c.nav.Navigate(LoginRoute)
	}
	return nil
}

// CurrentUser returns the cached user, or nil when logged out.
func (c *Client) CurrentUser(ctx context.Context) (*session.User, error) {
	return c.sessions.User(ctx)
}

// IsAuthenticated reports whether an access token is stored.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return session.IsAuthenticated(ctx, c.sessions)
}
