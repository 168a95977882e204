package altosdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned when an operation is abandoned because the
// session could not be kept authenticated: the refresh call failed, or the
// platform rejected the access token outright. By the time a caller sees this
// error both credentials have already been cleared and the AuthFailureHandler
// has fired.
var ErrSessionExpired = errors.New("altosdk: session expired")

// ErrNotAuthenticated is returned by AccessToken when no usable credential is
// available and none can be obtained, e.g. before the first login.
var ErrNotAuthenticated = errors.New("altosdk: not authenticated")

// ErrorCodeUnknown is synthesized when an error response carries no parseable
// error envelope.
const ErrorCodeUnknown = "UNKNOWN"

// APIError represents the platform's error envelope for non-2xx responses:
//
//	{"error": {"code": "...", "message": "..."}}
//
// It implements the error interface so callers can match on it with errors.As.
type APIError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "TOOL_NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable description of the error.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// errorEnvelope is the wire form of an error response.
type errorEnvelope struct {
	Error APIError `json:"error"`
}

// parseAPIError turns a non-2xx response body into an *APIError. A body that
// is not the expected envelope yields a generic UNKNOWN error built from the
// status text, so callers always get something renderable.
func parseAPIError(statusCode int, body []byte) *APIError {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		envelope.Error.StatusCode = statusCode
		return &envelope.Error
	}

	return &APIError{
		StatusCode: statusCode,
		Code:       ErrorCodeUnknown,
		Message:    http.StatusText(statusCode),
	}
}

// AuthFailureHandler receives the session-expired signal: refresh failed or
// the platform returned 401 for an authenticated call. Implementations
// typically route the user back to a login prompt. The handler runs after
// both credentials have been cleared.
type AuthFailureHandler interface {
	SessionExpired()
}

// AuthFailureFunc adapts a plain function to the AuthFailureHandler interface.
type AuthFailureFunc func()

// SessionExpired implements AuthFailureHandler.
func (f AuthFailureFunc) SessionExpired() { f() }
