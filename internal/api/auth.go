package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/packetapp/packet-go/internal/models"
)

// LoginResponse is the token pair plus profile returned by the login,
// register and refresh endpoints.
type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login authenticates with email and password and persists the resulting
// session. A 401 here means bad credentials and surfaces the backend's
// message, not a token failure.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/users/login", "", loginRequest{Email: email, Password: password}, &resp, false)
	c.record("login", err)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(resp.Token, resp.RefreshToken, resp.User.ID, resp.User.Name, resp.User.Email); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	slog.Info("logged in", "user_id", resp.User.ID)
	return &resp.User, nil
}

// Register creates a new account with the standard role and persists the
// resulting session. A 409 means the email is already registered.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	var resp LoginResponse
	req := registerRequest{Name: name, Email: email, Password: password, Role: "standard"}
	err := c.doJSON(ctx, http.MethodPost, "/users/register", "", req, &resp, false)
	c.record("register", err)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(resp.Token, resp.RefreshToken, resp.User.ID, resp.User.Name, resp.User.Email); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	slog.Info("registered", "user_id", resp.User.ID)
	return &resp.User, nil
}

// RequestPasswordReset asks the backend to email a reset code and returns
// the confirmation message.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/users/forgot-password", "", map[string]string{"email": email}, &resp, false)
	c.record("forgot_password", err)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ResetPassword exchanges a reset code for a new password. A 400 means the
// code is wrong or expired.
func (c *Client) ResetPassword(ctx context.Context, code, newPassword string) error {
	err := c.doJSON(ctx, http.MethodPost, "/users/reset-password", "",
		map[string]string{"code": code, "newPassword": newPassword}, nil, false)
	c.record("reset_password", err)
	return err
}

// Refresh exchanges a refresh token for a new token pair. It does not touch
// the session store; refreshSession does that for the transparent path.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/users/refresh-token", "",
		map[string]string{"refreshToken": refreshToken}, &resp, false)
	c.record("refresh_token", err)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	err := c.withRefresh(ctx, "profile", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, "/users/profile", token, nil, &user, true)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout clears the local session. The backend keeps no client-side
// session state to invalidate.
func (c *Client) Logout() error {
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	slog.Info("logged out")
	return nil
}
