package altosdk

// ============================================================================
// Auth Types
// ============================================================================

// TokenResponse is returned by POST /auth/login and POST /auth/refresh.
type TokenResponse struct {
	// AccessToken is the short-lived JWT used to authenticate API requests.
	// It lives in memory only and is never persisted.
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque rotating credential exchanged for new access
	// tokens. It is replaced on every successful login or refresh.
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// Tool Types
// ============================================================================

// Tool describes a tool registered with the agent platform.
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Enabled controls whether the agent may invoke this tool.
	Enabled bool `json:"enabled"`

	// OAuthConnected reports whether a delegated OAuth grant is active for
	// this tool. Managed through StartOAuth / DisconnectOAuth.
	OAuthConnected bool `json:"oauth_connected"`
}

// ToolPatch is a partial update for a tool. Nil fields are left unchanged.
type ToolPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

// ============================================================================
// Agent Types
// ============================================================================

// AgentBehavior holds the agent's behaviour settings.
type AgentBehavior struct {
	Name         string  `json:"name"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
}

// ============================================================================
// OAuth Types
// ============================================================================

// OAuthStart is returned by GET /oauth/{toolID}/start. The caller opens
// AuthorizeURL in a browser to complete the delegation flow.
type OAuthStart struct {
	AuthorizeURL string `json:"authorize_url"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by the unauthenticated GET /health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}
