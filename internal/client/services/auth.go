// Package services contains application services for the dashgate client.
// This file defines the authentication service: login, registration, identity
// lookups, profile changes, password reset and logout.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dashgate/internal/client/client"
	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/dmitrijs2005/dashgate/internal/client/tokenstore"
	"github.com/dmitrijs2005/dashgate/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a token and store it.
//   - Register: create a pending account on the server.
//   - WhoAmI / CheckSessionValid: ask the server about the held token.
//   - UpdateProfile / DeleteAccount: act on the caller's own account only.
//   - RequestPasswordReset / ConfirmPasswordReset: token-less reset flow.
//   - Logout: forget the token locally. LogoutEverywhere: revoke all tokens
//     on the server, then forget the local one.
//
// Operations that need a token fail with client.ErrUnauthenticated without
// contacting the server when none is held. All methods honor context
// cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, identifier, secret string) (string, error)
	Register(ctx context.Context, firstName, lastName, email, secret string) (*models.User, error)
	WhoAmI(ctx context.Context) (*models.User, error)
	CheckSessionValid(ctx context.Context) bool
	UpdateProfile(ctx context.Context, userID int64, upd models.UserUpdate) (*models.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, resetToken, newSecret string) error
	Logout(ctx context.Context) error
	LogoutEverywhere(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client and a
// token store.
type authService struct {
	client client.Client
	store  tokenstore.Store
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// token store.
func NewAuthService(c client.Client, store tokenstore.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, store: store, log: log}
}

// bearer returns the held token or client.ErrUnauthenticated.
func bearer(ctx context.Context, store tokenstore.Store) (string, error) {
	token, ok := store.Get(ctx)
	if !ok {
		return "", client.ErrUnauthenticated
	}
	return token, nil
}

// InputError is input rejected locally, before any request was made. It
// matches client.ErrValidation.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Err.Error()
}

func (e *InputError) Unwrap() []error {
	return []error{client.ErrValidation, e.Err}
}

func invalid(err error) error {
	return &InputError{Err: err}
}

// Login authenticates and stores the issued token, replacing any held one.
func (a *authService) Login(ctx context.Context, identifier, secret string) (string, error) {
	if err := (models.Credentials{Identifier: identifier, Secret: secret}).Validate(); err != nil {
		return "", invalid(err)
	}

	token, err := a.client.Token(ctx, identifier, secret)
	if err != nil {
		return "", fmt.Errorf("login error: %w", err)
	}

	if err := a.store.Set(ctx, token); err != nil {
		return "", fmt.Errorf("token saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "identifier", identifier)
	return token, nil
}

// Register creates an account named "<first> <last>". The server leaves it
// pending until an admin activates it.
func (a *authService) Register(ctx context.Context, firstName, lastName, email, secret string) (*models.User, error) {
	reg := models.Registration{FirstName: firstName, LastName: lastName, Email: email, Password: secret}
	if err := reg.Validate(); err != nil {
		return nil, invalid(err)
	}

	token, _ := a.store.Get(ctx)
	u, err := a.client.Register(ctx, token, reg.FullName(), reg.Email, reg.Password)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return u, nil
}

func (a *authService) WhoAmI(ctx context.Context) (*models.User, error) {
	token, err := bearer(ctx, a.store)
	if err != nil {
		return nil, err
	}
	return a.client.Me(ctx, token)
}

// CheckSessionValid reports whether the server accepts the held token. Any
// failure, including an unreachable server, counts as invalid.
func (a *authService) CheckSessionValid(ctx context.Context) bool {
	token, err := bearer(ctx, a.store)
	if err != nil {
		return false
	}

	ok, err := a.client.IsLoggedIn(ctx, token)
	if err != nil {
		a.log.Warn(ctx, "error checking authentication", "error", err)
		return false
	}
	return ok
}

// requireSelf checks that userID is the authenticated identity.
func (a *authService) requireSelf(ctx context.Context, userID int64) (string, error) {
	token, err := bearer(ctx, a.store)
	if err != nil {
		return "", err
	}
	me, err := a.client.Me(ctx, token)
	if err != nil {
		return "", err
	}
	if me.ID != userID {
		return "", fmt.Errorf("%w: user %d is not the authenticated user", client.ErrForbidden, userID)
	}
	return token, nil
}

func (a *authService) UpdateProfile(ctx context.Context, userID int64, upd models.UserUpdate) (*models.User, error) {
	if _, ok := a.store.Get(ctx); !ok {
		return nil, client.ErrUnauthenticated
	}
	if err := upd.Validate(); err != nil {
		return nil, invalid(err)
	}

	token, err := a.requireSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	u, err := a.client.UpdateUser(ctx, token, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("update error: %w", err)
	}
	return u, nil
}

// DeleteAccount removes the caller's own account and forgets the token.
func (a *authService) DeleteAccount(ctx context.Context, userID int64) error {
	token, err := a.requireSelf(ctx, userID)
	if err != nil {
		return err
	}

	if err := a.client.DeleteUser(ctx, token, userID); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("token clearing error: %w", err)
	}
	a.log.Info(ctx, "account deleted", "user_id", userID)
	return nil
}

func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := models.ValidateEmail(email); err != nil {
		return invalid(err)
	}
	return a.client.RequestPasswordReset(ctx, email)
}

func (a *authService) ConfirmPasswordReset(ctx context.Context, resetToken, newSecret string) error {
	if resetToken == "" {
		return invalid(errors.New("reset token is required"))
	}
	if newSecret == "" {
		return invalid(errors.New("new password is required"))
	}
	return a.client.ConfirmPasswordReset(ctx, resetToken, newSecret)
}

// Logout forgets the token locally. The server is not contacted, so the token
// itself stays valid until it expires.
func (a *authService) Logout(ctx context.Context) error {
	return a.store.Clear(ctx)
}

// LogoutEverywhere revokes every token of the account on the server. The local
// token is cleared even if the server call fails.
func (a *authService) LogoutEverywhere(ctx context.Context) error {
	token, err := bearer(ctx, a.store)
	if err != nil {
		return err
	}

	var remoteErr error
	if err := a.client.LogoutEverywhere(ctx, token); err != nil {
		remoteErr = fmt.Errorf("logout everywhere error: %w", err)
	}
	return errors.Join(remoteErr, a.store.Clear(ctx))
}
