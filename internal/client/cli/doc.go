// Package cli provides the interactive dashgate command-line client.
//
// It wires configuration, local token storage, the remote API client and the
// session services into a REPL. On start the visitor is routed once: to the
// login prompt when no valid session exists, otherwise to the user or admin
// dashboard according to the role reported by the server.
//
// Key features:
//   - Register / Login / Logout / Logout everywhere
//   - Password reset request and confirmation
//   - Profile view, update and account deletion
//   - Admin views: pending users, activation, all users, user details
//
// Every gated view re-checks the session with the server before rendering;
// admin views additionally run the admin policy and redirect to login on
// denial without fetching any data.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
