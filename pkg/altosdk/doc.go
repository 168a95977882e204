/*
Package altosdk provides a client SDK for the Alto agent platform API.

# Overview

The package is organized around a single Client that owns the full access
credential lifecycle: login, transparent refresh ahead of expiry, and
fail-closed recovery when the platform rejects a credential.

	store := altosdk.NewMemCredentialStore() // or a sqlite-backed store
	client := altosdk.NewClient("https://api.alto-ai.tech", store)

	// Authenticate once; the refresh credential is persisted through the
	// credential store and survives process restarts.
	if _, err := client.Login(ctx, "admin", "hunter2"); err != nil {
		return err
	}

	// Authenticated operations refresh the access token automatically.
	tools, err := client.ListTools(ctx)

# Credential lifecycle

The access token is held in volatile memory only (see TokenStore) and carries
its own expiry inside the JWT claims segment. Before every authenticated call
the client decodes that expiry and proactively refreshes when the token is
within 30 seconds of expiring, or when the token cannot be decoded at all.
Concurrent callers that hit the refresh window share a single in-flight
refresh request; the rotating refresh credential is never burned twice.

The refresh credential is the only durably stored secret. It is persisted
through the injected CredentialStore, rotated on every successful login or
refresh, and deleted on logout or refresh failure.

# Failure policy

A failed refresh, or a 401 on an authenticated call, clears both credentials,
notifies the injected AuthFailureHandler exactly once per event, and abandons
the in-flight operation with ErrSessionExpired. No operation proceeds on a
credential known or suspected to be invalid.

Any other non-2xx response surfaces as an *APIError carrying the platform's
error envelope, with a generic UNKNOWN code synthesized when the body is not
parseable.
*/
package altosdk
