package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/dmitrijs2005/dashgate/internal/client/services"
	"github.com/dmitrijs2005/dashgate/internal/common"
)

var errCanceled = errors.New("canceled by user")

// Home routes the visitor: login prompt, user dashboard or admin dashboard.
func (a *App) Home(ctx context.Context) error {
	return a.show(ctx, a.guard.ResolveLandingRoute(ctx))
}

func (a *App) show(ctx context.Context, dest models.Destination) error {
	a.log.Debug(ctx, "routing", "destination", dest.Path())

	switch dest {
	case models.DestinationAdminDashboard:
		return a.AdminDashboard(ctx)
	case models.DestinationUserDashboard:
		return a.Dashboard(ctx)
	default:
		a.userName = ""
		a.println("Please log in.")
		return a.Login(ctx)
	}
}

// redirectToLogin is what a gated view does instead of rendering.
func (a *App) redirectToLogin(ctx context.Context, reason string) error {
	a.userName = ""
	a.println(reason)
	return a.Login(ctx)
}

// current resolves the identity for a gated view, redirecting to login when
// there is none.
func (a *App) current(ctx context.Context) (*models.User, bool) {
	v := a.guard.Evaluate(ctx)
	if !v.IsAuthenticated() {
		_ = a.redirectToLogin(ctx, "You are not logged in. Redirecting to login...")
		return nil, false
	}
	a.userName = v.User.DisplayName()
	return v.User, true
}

// Dashboard shows the profile of the logged-in user.
func (a *App) Dashboard(ctx context.Context) error {
	u, ok := a.current(ctx)
	if !ok {
		return nil
	}

	a.printf("Welcome, %s!\n", u.DisplayName())
	a.printf("  ID:     %d\n", u.ID)
	a.printf("  Name:   %s\n", u.Name)
	a.printf("  Email:  %s\n", u.Email)
	if u.Role != "" {
		a.printf("  Role:   %s\n", u.Role)
	}
	if u.Status != "" {
		a.printf("  Status: %s\n", u.Status)
	}
	return nil
}

// UpdateProfile prompts for new profile values. Empty answers keep the
// current value.
func (a *App) UpdateProfile(ctx context.Context) error {
	u, ok := a.current(ctx)
	if !ok {
		return nil
	}

	a.println("Leave a field empty to keep its current value.")
	var upd models.UserUpdate

	name, err := getSimpleText(a.reader, "Name ["+u.Name+"]", a.out)
	if err != nil {
		return err
	}
	if name != "" {
		upd.Name = &name
	}

	email, err := getSimpleText(a.reader, "Email ["+u.Email+"]", a.out)
	if err != nil {
		return err
	}
	if email != "" {
		upd.Email = &email
	}

	password, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) > 0 {
		pw := string(password)
		upd.Password = &pw
	}

	updated, err := a.auth.UpdateProfile(ctx, u.ID, upd)
	if err != nil {
		a.println(services.UserMessage(err, services.MsgUpdateFailed))
		return err
	}

	a.userName = updated.DisplayName()
	a.println("User information updated successfully.")
	return nil
}

// DeleteAccount removes the logged-in user's account after confirmation and
// ends the session.
func (a *App) DeleteAccount(ctx context.Context) error {
	u, ok := a.current(ctx)
	if !ok {
		return nil
	}

	yes, err := confirm(a.reader, "Delete account "+u.Email+"? This cannot be undone.", a.out)
	if err != nil {
		return err
	}
	if !yes {
		a.println("Account deletion canceled.")
		return errCanceled
	}

	if err := a.auth.DeleteAccount(ctx, u.ID); err != nil {
		a.println(services.UserMessage(err, services.MsgDeleteFailed))
		return err
	}

	a.userName = ""
	a.println("Your account has been deleted.")
	return nil
}
