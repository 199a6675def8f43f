// Package transport is the single point of outbound HTTP communication
// with the RideMatch backend: base URL handling, bearer-token attachment,
// fixed request timeout, and a one-shot refresh-and-retry cycle on 401.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/session"
)

// Hooks are the UI-shell callbacks invoked on unrecoverable auth failure.
// The transport never performs navigation itself.
type Hooks struct {
	SessionExpired  func()
	NavigateToLogin func()
}

// Client issues JSON requests against the backend REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Store
	log      logging.Logger
	hooks    Hooks

	// refreshMu serializes refresh cycles so concurrent 401s collapse
	// into a single call to the refresh endpoint.
	refreshMu sync.Mutex
}

// New constructs a Client. baseURL includes the /api path prefix.
func New(baseURL string, timeout time.Duration, sessions *session.Store, log logging.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
		log:      log,
	}
}

// SetHooks registers the UI-shell callbacks. Nil fields are skipped.
func (c *Client) SetHooks(h Hooks) {
	c.hooks = h
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes into out.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body and decodes into out.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do issues one request. The stored access token is attached as a bearer
// header when present. A 401 triggers exactly one refresh cycle followed
// by a single replay of the original request; a failed cycle clears the
// stored credentials, fires the registered hooks, and returns
// ErrAuthExpired. Other non-2xx statuses become *APIError with the
// server-supplied message when one is present.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	token, err := c.sessions.AccessToken(ctx)
	if err != nil {
		return err
	}

	resp, data, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		newToken, rerr := c.refresh(ctx, token)
		if rerr != nil {
			c.log.Warn(ctx, "token refresh failed", "error", rerr)
			if cerr := c.sessions.Clear(ctx); cerr != nil {
				c.log.Error(ctx, "failed to clear credentials", "error", cerr)
			}
			if c.hooks.SessionExpired != nil {
				c.hooks.SessionExpired()
			}
			if c.hooks.NavigateToLogin != nil {
				c.hooks.NavigateToLogin()
			}
			return ErrAuthExpired
		}

		resp, data, err = c.send(ctx, method, path, payload, newToken)
		if err != nil {
			return err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// send performs a single HTTP round trip and reads the full body.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return resp, data, nil
}

// refresh exchanges the stored refresh token for a new access token and
// persists it. staleToken is the access token that just failed; when a
// concurrent refresh already replaced it, the stored token is reused
// without another call to the refresh endpoint.
func (c *Client) refresh(ctx context.Context, staleToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, err := c.sessions.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	if current != "" && current != staleToken {
		return current, nil
	}

	refreshToken, err := c.sessions.RefreshToken(ctx)
	if err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", fmt.Errorf("no refresh token available")
	}

	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return "", err
	}

	resp, data, err := c.send(ctx, http.MethodPost, "/auth/refresh", body, "")
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if tokens.AccessToken == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}

	if err := c.sessions.SetAccessToken(ctx, tokens.AccessToken); err != nil {
		return "", err
	}
	if tokens.RefreshToken != "" {
		if err := c.sessions.SetRefreshToken(ctx, tokens.RefreshToken); err != nil {
			return "", err
		}
	}

	c.log.Debug(ctx, "access token refreshed")
	return tokens.AccessToken, nil
}

// serverMessage extracts the error text a backend response carries, if any.
func serverMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
