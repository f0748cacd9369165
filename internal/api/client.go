// Package api implements the typed HTTP client for the Packet backend.
//
// Every authenticated operation goes through the refresh-on-401 policy in
// refresh.go; the client holds no state beyond its dependencies, which are
// injected at construction (no package-level singleton).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/packetapp/packet-go/internal/metrics"
	"github.com/packetapp/packet-go/internal/session"
)

// defaultTimeout bounds a single HTTP request when the caller supplies no
// http.Client of their own.
const defaultTimeout = 30 * time.Second

// Client is a typed facade over the backend's REST endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store

	// leeway is how close to expiry a JWT access token may be before the
	// client refreshes it up front instead of waiting for a 401.
	leeway time.Duration
}

// NewClient creates a client for the backend at baseURL. httpClient may be
// nil, in which case a client with a 30s timeout is used. The session store
// is required: it supplies tokens and receives refreshed pairs.
func NewClient(baseURL string, httpClient *http.Client, store session.Store) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		store:   store,
		leeway:  30 * time.Second,
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Store returns the session store the client persists tokens to.
func (c *Client) Store() session.Store { return c.store }

// do issues one HTTP request and decodes the response into out (skipped when
// out is nil). A non-empty accessToken is attached as a bearer header.
// authed controls the 401 mapping: authenticated calls get ErrTokenInvalid
// so the refresh wrapper can react, unauthenticated ones (login, refresh)
// get the backend's message since a 401 there means bad credentials.
func (c *Client) do(ctx context.Context, method, path, accessToken, contentType string, reqBody io.Reader, out any, authed bool) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp, authed); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doJSON marshals reqBody as JSON (nil means no body) and calls do.
func (c *Client) doJSON(ctx context.Context, method, path, accessToken string, reqBody, out any, authed bool) error {
	var body io.Reader
	contentType := ""
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, accessToken, contentType, body, out, authed)
}

// mapStatus converts an HTTP status into the error taxonomy: success passes
// through, 401 becomes ErrTokenInvalid (or a credentials Error for
// unauthenticated calls), 400/404/409 carry the backend's message, and
// anything else is a generic server error.
func mapStatus(resp *http.Response, authed bool) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusUnauthorized:
		if authed {
			return ErrTokenInvalid
		}
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp)}
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp)}
	default:
		return serverError(resp.StatusCode)
	}
}

// errorMessage extracts the error or message field from an error response
// body, falling back to a generic description.
func errorMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("request rejected: %d", resp.StatusCode)
}

// record bumps the per-operation request counter.
func (c *Client) record(op string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.Requests.WithLabelValues(op, outcome).Inc()
}
