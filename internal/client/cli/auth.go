package cli

import (
	"context"

	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/dmitrijs2005/dashgate/internal/client/services"
	"github.com/dmitrijs2005/dashgate/internal/common"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// Register prompts for the sign-up form and creates a pending account.
// The account cannot log in until an administrator activates it.
func (a *App) Register(ctx context.Context) error {
	var (
		reg models.Registration
		err error
	)
	if reg.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if reg.LastName, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if reg.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Register(ctx, reg.FirstName, reg.LastName, reg.Email, string(password)); err != nil {
		a.println(services.UserMessage(err, services.MsgRegisterFailed))
		return err
	}

	a.println("Registration successful! Your account is pending activation by an administrator.")
	return nil
}

// Login prompts for credentials, stores the issued token and routes the
// visitor to the dashboard matching their role.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Login(ctx, email, string(password)); err != nil {
		a.println(services.UserMessage(err, services.MsgLoginFailed))
		return err
	}
	a.println("Login successful! Redirecting to dashboard...")

	dest := a.guard.ResolveLandingRoute(ctx)
	if dest == models.DestinationLogin {
		a.println("Your session could not be verified. Please log in again.")
		return nil
	}
	return a.show(ctx, dest)
}

// Logout forgets the token held by this client. Tokens held elsewhere stay
// valid; see LogoutEverywhere.
func (a *App) Logout(ctx context.Context) error {
	a.userName = ""
	if err := a.auth.Logout(ctx); err != nil {
		a.println(services.UserMessage(err, services.MsgLogoutFailed))
		return err
	}
	a.println("Logged out.")
	return nil
}

// LogoutEverywhere invalidates every token of the account on the server and
// forgets the local one.
func (a *App) LogoutEverywhere(ctx context.Context) error {
	a.userName = ""
	if err := a.auth.LogoutEverywhere(ctx); err != nil {
		a.println(services.UserMessage(err, services.MsgLogoutFailed))
		return err
	}
	a.println("Logged out from all devices.")
	return nil
}

// ResetPassword asks the server to mail a reset link to the given address.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.RequestPasswordReset(ctx, email); err != nil {
		a.println(services.UserMessage(err, services.MsgResetRequestFailed))
		return err
	}
	a.println("Password reset instructions have been sent to your email.")
	return nil
}

// ConfirmReset sets a new password using the token from the reset link. When
// token is empty it is prompted for.
func (a *App) ConfirmReset(ctx context.Context, token string) error {
	var err error
	if token == "" {
		if token, err = getSimpleText(a.reader, "Reset token", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.ConfirmPasswordReset(ctx, token, string(password)); err != nil {
		a.println(services.UserMessage(err, services.MsgResetConfirmFailed))
		return err
	}
	a.println("Your password has been reset successfully.")
	return nil
}
