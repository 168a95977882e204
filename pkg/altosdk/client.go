package altosdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client talks to the Alto platform API. It injects the access credential
// into every authenticated request, refreshes it ahead of expiry, and fails
// closed when the platform rejects it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens *TokenStore
	creds  CredentialStore
	logger *slog.Logger

	// onAuthFailure is invoked after credentials are cleared because the
	// session could not be recovered. Nil means no side effect.
	onAuthFailure AuthFailureHandler

	// inflight de-duplicates concurrent refresh attempts: the first caller
	// performs the request, later callers wait on the same result. Without
	// this a second refresh would rotate the credential the first caller
	// just stored.
	refreshMu sync.Mutex
	inflight  *refreshCall
}

// refreshCall is a shared pending refresh. done is closed once err is set.
type refreshCall struct {
	done chan struct{}
	err  error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithAuthFailureHandler installs the handler invoked when the session
// expires and cannot be recovered.
func WithAuthFailureHandler(h AuthFailureHandler) Option {
	return func(c *Client) { c.onAuthFailure = h }
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a platform client. creds is the durable store for the
// rotating refresh credential; the access token itself never leaves memory.
func NewClient(baseURL string, creds CredentialStore, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		tokens: NewTokenStore(creds),
		creds:  creds,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens exposes the access-credential store. Read-only use outside the
// client; all mutations happen through Client operations.
func (c *Client) Tokens() *TokenStore { return c.tokens }

// HasSession reports whether a refresh credential is persisted, i.e. whether
// an authenticated operation has any chance of succeeding. This is the login
// guard: commands that need auth check it before doing work.
func (c *Client) HasSession(ctx context.Context) bool {
	refresh, err := c.creds.Load(ctx)
	return err == nil && refresh != ""
}

// AccessToken returns a currently valid access token, refreshing first when
// needed. It fails closed with ErrNotAuthenticated when no token is
// available, which is how the log stream refuses to open a channel without
// credentials.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return "", err
	}
	token, ok := c.tokens.Get()
	if !ok {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// ensureFresh guarantees the held access token passes the expiry gate, using
// the persisted refresh credential when it does not. With no refresh
// credential stored it returns nil and the caller proceeds unauthenticated;
// the server's 401 is the backstop.
func (c *Client) ensureFresh(ctx context.Context) error {
	if token, ok := c.tokens.Get(); ok && !needsRefresh(token, time.Now()) {
		return nil
	}

	c.refreshMu.Lock()
	if call := c.inflight; call != nil {
		c.refreshMu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	// Double-check after acquiring the lock: the previous holder may have
	// refreshed while this caller was between the gate check and here.
	if token, ok := c.tokens.Get(); ok && !needsRefresh(token, time.Now()) {
		c.refreshMu.Unlock()
		return nil
	}
	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.refreshMu.Unlock()

	err := func() error {
		refresh, err := c.creds.Load(ctx)
		if err != nil {
			return fmt.Errorf("load refresh credential: %w", err)
		}
		if refresh == "" {
			return nil
		}
		return c.refresh(ctx, refresh)
	}()

	call.err = err
	close(call.done)

	c.refreshMu.Lock()
	c.inflight = nil
	c.refreshMu.Unlock()

	return err
}

// refresh exchanges the refresh credential for a new token pair. Any HTTP
// failure is terminal for the session: both credentials are cleared and the
// auth failure handler fires. Transport errors are returned as-is so a flaky
// network does not log the user out.
func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return fmt.Errorf("encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("token refresh rejected, forcing logout", "status", resp.StatusCode)
		c.sessionExpired(ctx)
		return ErrSessionExpired
	}

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}

	c.tokens.Set(tokens.AccessToken)
	if err := c.creds.Save(ctx, tokens.RefreshToken); err != nil {
		return fmt.Errorf("persist refresh credential: %w", err)
	}

	c.logger.Debug("access token refreshed")
	return nil
}

// sessionExpired clears both credentials and notifies the handler. Called on
// refresh rejection and on a 401 for an authenticated request.
func (c *Client) sessionExpired(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Warn("failed to purge refresh credential", "error", err)
	}
	if c.onAuthFailure != nil {
		c.onAuthFailure.SessionExpired()
	}
}

// do performs a platform request. Unless skipAuth is set it first runs the
// refresh gate and attaches the bearer header when a token is held. The
// caller owns the response body.
func (c *Client) do(ctx context.Context, method, path string, body any, skipAuth bool) (*http.Response, error) {
	if !skipAuth {
		if err := c.ensureFresh(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if token, ok := c.tokens.Get(); ok && !skipAuth {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !skipAuth {
		resp.Body.Close()
		c.logger.Warn("authenticated request rejected, forcing logout", "method", method, "path", path)
		c.sessionExpired(ctx)
		return nil, ErrSessionExpired
	}

	return resp, nil
}

// decodeJSON consumes resp. Non-2xx responses become an *APIError from the
// error envelope; a 204 leaves target untouched; anything else is decoded as
// JSON into target (which may be nil to discard the payload).
func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, bodyBytes)
	}

	if resp.StatusCode == http.StatusNoContent || target == nil {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
