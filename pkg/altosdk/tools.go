package altosdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListTools returns every tool registered with the platform.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/tools", nil, false)
	if err != nil {
		return nil, err
	}

	var tools []Tool
	if err := decodeJSON(resp, &tools); err != nil {
		return nil, err
	}

	return tools, nil
}

// GetTool returns a single tool by ID.
func (c *Client) GetTool(ctx context.Context, id string) (*Tool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/tools/"+url.PathEscape(id), nil, false)
	if err != nil {
		return nil, err
	}

	var tool Tool
	if err := decodeJSON(resp, &tool); err != nil {
		return nil, err
	}

	return &tool, nil
}

// UpdateTool applies a partial update to a tool and returns the result.
func (c *Client) UpdateTool(ctx context.Context, id string, patch ToolPatch) (*Tool, error) {
	resp, err := c.do(ctx, http.MethodPut, "/tools/"+url.PathEscape(id), patch, false)
	if err != nil {
		return nil, err
	}

	var tool Tool
	if err := decodeJSON(resp, &tool); err != nil {
		return nil, err
	}

	return &tool, nil
}

// DeleteTool removes a tool from the platform.
func (c *Client) DeleteTool(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/tools/"+url.PathEscape(id), nil, false)
	if err != nil {
		return err
	}

	return decodeJSON(resp, nil)
}

// StartOAuth begins the delegated OAuth flow for a tool. The returned URL is
// opened in a browser by the caller.
func (c *Client) StartOAuth(ctx context.Context, toolID string) (*OAuthStart, error) {
	resp, err := c.do(ctx, http.MethodGet, "/oauth/"+url.PathEscape(toolID)+"/start", nil, false)
	if err != nil {
		return nil, err
	}

	var start OAuthStart
	if err := decodeJSON(resp, &start); err != nil {
		return nil, err
	}

	return &start, nil
}

// DisconnectOAuth revokes a tool's delegated OAuth grant.
func (c *Client) DisconnectOAuth(ctx context.Context, toolID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/oauth/"+url.PathEscape(toolID), nil, false)
	if err != nil {
		return err
	}

	return decodeJSON(resp, nil)
}
