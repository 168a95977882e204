package altosdk

import (
	"context"
	"net/http"
)

// Login authenticates with username and password. On success the access
// token is held in memory and the refresh credential is persisted, replacing
// whatever was stored before.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", body, true)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens); err != nil {
		return nil, err
	}

	c.tokens.Set(tokens.AccessToken)
	if err := c.creds.Save(ctx, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &tokens, nil
}

// Logout revokes the refresh credential server-side and clears all local
// credentials. The revoke call is best-effort: logout is a local operation
// first and a server notification second, so a dead server cannot keep the
// user logged in.
func (c *Client) Logout(ctx context.Context) error {
	if refresh, err := c.creds.Load(ctx); err == nil && refresh != "" {
		body := map[string]string{"refresh_token": refresh}
		if resp, err := c.do(ctx, http.MethodPost, "/auth/logout", body, false); err == nil {
			if err := decodeJSON(resp, nil); err != nil {
				c.logger.Debug("logout revoke failed", "error", err)
			}
		}
	}

	return c.tokens.Clear(ctx)
}

// ChangePassword updates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}

	resp, err := c.do(ctx, http.MethodPut, "/auth/password", body, false)
	if err != nil {
		return err
	}

	return decodeJSON(resp, nil)
}
