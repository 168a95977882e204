package altosdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// freshToken mints an access token that passes the expiry gate.
func freshToken(t *testing.T) string {
	t.Helper()
	return mintToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestLogin(t *testing.T) {
	t.Parallel()

	access := freshToken(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "admin", body["username"])
		require.Equal(t, "hunter2", body["password"])

		writeJSON(t, w, http.StatusOK, TokenResponse{AccessToken: access, RefreshToken: "refresh-1"})
	}))
	defer server.Close()

	creds := NewMemCredentialStore()
	client := NewClient(server.URL, creds)

	tokens, err := client.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)
	require.Equal(t, access, tokens.AccessToken)

	held, ok := client.Tokens().Get()
	require.True(t, ok)
	require.Equal(t, access, held)

	stored, err := creds.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "refresh-1", stored)
}

func TestProactiveRefresh(t *testing.T) {
	t.Parallel()

	access := freshToken(t)
	var refreshCalls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls.Add(1)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "refresh-1", body["refresh_token"])
			writeJSON(t, w, http.StatusOK, TokenResponse{AccessToken: access, RefreshToken: "refresh-2"})
		case "/tools":
			require.Equal(t, "Bearer "+access, r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, []Tool{{ID: "t1", Name: "search"}})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer server.Close()

	creds := NewMemCredentialStore()
	require.NoError(t, creds.Save(context.Background(), "refresh-1"))

	client := NewClient(server.URL, creds)

	tools, err := client.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	require.Equal(t, "search", tools[0].Name)

	require.EqualValues(t, 1, refreshCalls.Load())

	// The rotated refresh credential replaced the old one.
	stored, err := creds.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "refresh-2", stored)
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{
			"error": map[string]string{"code": "INVALID_TOKEN", "message": "refresh token revoked"},
		})
	}))
	defer server.Close()

	creds := NewMemCredentialStore()
	require.NoError(t, creds.Save(context.Background(), "revoked"))

	var authFailures atomic.Int32
	client := NewClient(server.URL, creds,
		WithAuthFailureHandler(AuthFailureFunc(func() { authFailures.Add(1) })))

	_, err := client.ListTools(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)

	_, ok := client.Tokens().Get()
	require.False(t, ok, "access token should be cleared")

	stored, err := creds.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, stored, "refresh credential should be purged")

	require.EqualValues(t, 1, authFailures.Load(), "auth failure handler should fire exactly once")
}

func TestUnauthorizedResponseForcesLogout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{
			"error": map[string]string{"code": "INVALID_TOKEN", "message": "revoked server-side"},
		})
	}))
	defer server.Close()

	creds := NewMemCredentialStore()
	var authFailures atomic.Int32
	client := NewClient(server.URL, creds,
		WithAuthFailureHandler(AuthFailureFunc(func() { authFailures.Add(1) })))

	// A token that passes the gate; the 401 path is the safety net for
	// server-side revocation the gate cannot see.
	client.Tokens().Set(freshToken(t))

	_, err := client.GetAgent(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)

	_, ok := client.Tokens().Get()
	require.False(t, ok)
	require.EqualValues(t, 1, authFailures.Load())
}

func TestConcurrentRefreshIsDeduplicated(t *testing.T) {
	t.Parallel()

	access := freshToken(t)
	var refreshCalls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		refreshCalls.Add(1)
		time.Sleep(50 * time.Millisecond) // widen the race window
		writeJSON(t, w, http.StatusOK, TokenResponse{AccessToken: access, RefreshToken: "refresh-2"})
	}))
	defer server.Close()

	creds := NewMemCredentialStore()
	require.NoError(t, creds.Save(context.Background(), "refresh-1"))

	client := NewClient(server.URL, creds)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := client.AccessToken(context.Background())
			require.NoError(t, err)
			require.Equal(t, access, token)
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, refreshCalls.Load(), "concurrent callers must share one refresh")
}

func TestErrorEnvelope(t *testing.T) {
	t.Parallel()

	t.Run("structured envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusNotFound, map[string]any{
				"error": map[string]string{"code": "TOOL_NOT_FOUND", "message": "no such tool"},
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, NewMemCredentialStore())
		client.Tokens().Set(freshToken(t))

		_, err := client.GetTool(context.Background(), "missing")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		require.Equal(t, "TOOL_NOT_FOUND", apiErr.Code)
		require.Equal(t, "no such tool", apiErr.Message)
	})

	t.Run("unparseable body synthesizes UNKNOWN", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>upstream exploded</html>"))
		}))
		defer server.Close()

		client := NewClient(server.URL, NewMemCredentialStore())
		client.Tokens().Set(freshToken(t))

		_, err := client.GetTool(context.Background(), "t1")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, ErrorCodeUnknown, apiErr.Code)
		require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
	})
}

func TestNoContentResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, NewMemCredentialStore())
	client.Tokens().Set(freshToken(t))

	require.NoError(t, client.DeleteTool(context.Background(), "t1"))
}

func TestLogoutIsBestEffort(t *testing.T) {
	t.Parallel()

	var revokeCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		revokeCalls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	creds := NewMemCredentialStore()
	require.NoError(t, creds.Save(context.Background(), "refresh-1"))

	client := NewClient(server.URL, creds)
	client.Tokens().Set(freshToken(t))

	// The revoke call failed but logout still succeeds locally.
	require.NoError(t, client.Logout(context.Background()))
	require.EqualValues(t, 1, revokeCalls.Load())

	_, ok := client.Tokens().Get()
	require.False(t, ok)

	stored, err := creds.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestHealthSkipsAuth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL, NewMemCredentialStore())
	client.Tokens().Set(freshToken(t))

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
}

func TestUnauthenticatedCallProceedsWithoutRefresh(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No refresh credential stored: the client must not call /auth/refresh
		// and must send the request without a bearer header.
		require.Equal(t, "/tools", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, []Tool{})
	}))
	defer server.Close()

	client := NewClient(server.URL, NewMemCredentialStore())

	tools, err := client.ListTools(context.Background())
	require.NoError(t, err)
	require.Empty(t, tools)
}
