// Package client contains the client-side transport to the remote
// authentication/user API and the local storage bootstrap.
//
// # Overview
//
// The package provides:
//  1. The Client interface: token issuance (OAuth2 password grant),
//     registration, identity and session checks, profile changes, password
//     reset and the admin-only user endpoints.
//  2. HTTPClient, the net/http implementation. Every request carries an
//     X-Request-ID; the bearer token is passed explicitly per call so the
//     transport itself holds no session state.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Non-2xx answers are returned as *APIError, which unwraps to one of the
// sentinels ErrUnauthenticated, ErrInvalidCredentials, ErrForbidden,
// ErrValidation or ErrNotFound. Transport failures, timeouts, 5xx answers and
// malformed bodies all match ErrUnavailable. Use errors.Is / errors.As.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
