package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/dmitrijs2005/dashgate/internal/client/services"
)

// requireAdmin runs the admin policy before any admin data is fetched. On
// denial nothing is rendered and the visitor is sent to login.
func (a *App) requireAdmin(ctx context.Context) bool {
	if a.policy.IsAdminAuthenticated(ctx) {
		return true
	}
	_ = a.redirectToLogin(ctx, "Administrator access required. Redirecting to login...")
	return false
}

// AdminDashboard shows pending accounts and all user ids.
func (a *App) AdminDashboard(ctx context.Context) error {
	if !a.requireAdmin(ctx) {
		return nil
	}
	if u, err := a.auth.WhoAmI(ctx); err == nil {
		a.userName = u.DisplayName()
	}

	ov, err := a.admin.Overview(ctx)
	if err != nil {
		a.println(services.UserMessage(err, services.MsgAdminFetchFailed))
		return err
	}

	a.println("Admin dashboard")
	a.renderPending(ov.Pending)
	a.renderIDs(ov.UserIDs)
	return nil
}

// Pending lists accounts waiting for activation.
func (a *App) Pending(ctx context.Context) error {
	if !a.requireAdmin(ctx) {
		return nil
	}

	users, err := a.admin.ListPending(ctx)
	if err != nil {
		a.println(services.UserMessage(err, services.MsgAdminFetchFailed))
		return err
	}
	a.renderPending(users)
	return nil
}

// Activate activates the account and shows the refreshed pending list.
func (a *App) Activate(ctx context.Context, id int64) error {
	if !a.requireAdmin(ctx) {
		return nil
	}

	users, err := a.admin.ActivateAndRefresh(ctx, id)
	if err != nil {
		a.println(services.UserMessage(err, services.MsgActivateFailed))
		return err
	}
	a.printf("User %d activated.\n", id)
	a.renderPending(users)
	return nil
}

// Users lists the ids of all accounts.
func (a *App) Users(ctx context.Context) error {
	if !a.requireAdmin(ctx) {
		return nil
	}

	ids, err := a.admin.ListAllUserIDs(ctx)
	if err != nil {
		a.println(services.UserMessage(err, services.MsgAdminFetchFailed))
		return err
	}
	a.renderIDs(ids)
	return nil
}

// User shows the details of one account.
func (a *App) User(ctx context.Context, id int64) error {
	if !a.requireAdmin(ctx) {
		return nil
	}

	u, err := a.admin.GetUser(ctx, id)
	if err != nil {
		a.println(services.UserMessage(err, services.MsgUserFetchFailed))
		return err
	}
	a.renderUsers([]models.User{*u})
	return nil
}

func (a *App) renderPending(users []models.User) {
	if len(users) == 0 {
		a.println("No pending users.")
		return
	}
	a.println("Pending users:")
	a.renderUsers(users)
}

func (a *App) renderUsers(users []models.User) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, orDash(string(u.Role)), orDash(string(u.Status)))
	}
	_ = tw.Flush()
}

func (a *App) renderIDs(ids []int64) {
	if len(ids) == 0 {
		a.println("No users.")
		return
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	a.printf("All user IDs (%d): %s\n", len(ids), strings.Join(parts, ", "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
