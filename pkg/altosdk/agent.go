package altosdk

import (
	"context"
	"net/http"
	"net/url"
)

// GetAgent returns the current agent behaviour settings.
func (c *Client) GetAgent(ctx context.Context) (*AgentBehavior, error) {
	resp, err := c.do(ctx, http.MethodGet, "/agent", nil, false)
	if err != nil {
		return nil, err
	}

	var agent AgentBehavior
	if err := decodeJSON(resp, &agent); err != nil {
		return nil, err
	}

	return &agent, nil
}

// UpdateAgent applies a partial update to the agent behaviour settings.
// Only the keys present in patch are changed.
func (c *Client) UpdateAgent(ctx context.Context, patch map[string]any) (*AgentBehavior, error) {
	resp, err := c.do(ctx, http.MethodPut, "/agent", patch, false)
	if err != nil {
		return nil, err
	}

	var agent AgentBehavior
	if err := decodeJSON(resp, &agent); err != nil {
		return nil, err
	}

	return &agent, nil
}

// UpdateSettings merges patch into the platform settings and returns the
// resulting settings map.
func (c *Client) UpdateSettings(ctx context.Context, patch map[string]any) (map[string]any, error) {
	resp, err := c.do(ctx, http.MethodPut, "/settings", patch, false)
	if err != nil {
		return nil, err
	}

	var settings map[string]any
	if err := decodeJSON(resp, &settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// DeleteSetting removes a settings key.
func (c *Client) DeleteSetting(ctx context.Context, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/settings/"+url.PathEscape(key), nil, false)
	if err != nil {
		return err
	}

	return decodeJSON(resp, nil)
}

// Health checks platform liveness. No authentication required.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil, true)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health); err != nil {
		return nil, err
	}

	return &health, nil
}
