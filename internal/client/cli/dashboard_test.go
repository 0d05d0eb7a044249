package cli

import (
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/dashgate/internal/client/apitest"
	"github.com/dmitrijs2005/dashgate/internal/client/client"
	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/stretchr/testify/require"
)

// loginAs stores a real token for email without touching the App's input.
func (e *testEnv) loginAs(t *testing.T, email, password string) {
	t.Helper()
	_, err := e.app.auth.Login(context.Background(), email, password)
	require.NoError(t, err)
}

func TestHome_NoTokenPromptsLogin(t *testing.T) {
	env := newTestEnv(t, "")

	err := env.app.Home(context.Background())
	require.ErrorIs(t, err, io.EOF)
	env.requireOutput(t, "Please log in.", "Email\n> ")
	require.Zero(t, env.server.Requests())
}

func TestHome_RoutesByRole(t *testing.T) {
	env := newTestEnv(t, "")
	env.addUser(t, "Bob", "bob@x.io", "pw-bob", models.RoleUser, models.StatusActive)

	env.loginAs(t, "bob@x.io", "pw-bob")
	require.NoError(t, env.app.Home(context.Background()))
	env.requireOutput(t, "Welcome, Bob!", "Role:   user", "Status: active")
	require.NotContains(t, env.out.String(), "Admin dashboard")

	env.out.Reset()
	env.loginAs(t, apitest.DefaultAdminEmail, apitest.DefaultAdminPassword)
	require.NoError(t, env.app.Home(context.Background()))
	env.requireOutput(t, "Admin dashboard")
}

func TestHome_RevokedTokenGoesToLogin(t *testing.T) {
	env := newTestEnv(t, "")
	env.addUser(t, "Bob", "bob@x.io", "pw-bob", models.RoleUser, models.StatusActive)
	env.loginAs(t, "bob@x.io", "pw-bob")
	env.app.userName = "Bob"

	env.server.RevokeTokens("bob@x.io")

	err := env.app.Home(context.Background())
	require.ErrorIs(t, err, io.EOF)
	env.requireOutput(t, "Please log in.")
	require.Empty(t, env.app.userName)
}

func TestDashboard_RequiresSession(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, env.app.Dashboard(context.Background()))
	env.requireOutput(t, "You are not logged in. Redirecting to login...")
	require.NotContains(t, env.out.String(), "Welcome")
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "Robert\n\n\n")
	id := env.addUser(t, "Bob", "bob@x.io", "pw-bob", models.RoleUser, models.StatusActive)
	env.loginAs(t, "bob@x.io", "pw-bob")

	require.NoError(t, env.app.UpdateProfile(ctx))
	env.requireOutput(t, "Name [Bob]", "Email [bob@x.io]", "User information updated successfully.")
	require.Equal(t, "Robert", env.app.userName)

	u, ok := env.server.Lookup(id)
	require.True(t, ok)
	require.Equal(t, "Robert", u.Name)
	require.Equal(t, "bob@x.io", u.Email)
}

func TestUpdateProfile_NothingChanged(t *testing.T) {
	env := newTestEnv(t, "\n\n\n")
	env.addUser(t, "Bob", "bob@x.io", "pw-bob", models.RoleUser, models.StatusActive)
	env.loginAs(t, "bob@x.io", "pw-bob")
	before := env.server.Requests()

	err := env.app.UpdateProfile(context.Background())
	require.ErrorIs(t, err, client.ErrValidation)
	require.ErrorIs(t, err, models.ErrEmptyUpdate)
	env.requireOutput(t, models.ErrEmptyUpdate.Error())

	// only the identity lookup for the view reached the server
	require.Equal(t, before+1, env.server.Requests())
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	env := newTestEnv(t, "\n"+apitest.DefaultAdminEmail+"\n\n")
	env.addUser(t, "Bob", "bob@x.io", "pw-bob", models.RoleUser, models.StatusActive)
	env.loginAs(t, "bob@x.io", "pw-bob")

	err := env.app.UpdateProfile(context.Background())
	require.ErrorIs(t, err, client.ErrValidation)
	env.requireOutput(t, "Email already registered")
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "yes\n")
	id := env.addUser(t, "Bob", "bob@x.io", "pw-bob", models.RoleUser, models.StatusActive)
	env.loginAs(t, "bob@x.io", "pw-bob")

	require.NoError(t, env.app.DeleteAccount(ctx))
	env.requireOutput(t, "Your account has been deleted.")

	_, ok := env.server.Lookup(id)
	require.False(t, ok)
	_, ok = env.store.Get(ctx)
	require.False(t, ok)
}

func TestDeleteAccount_Declined(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "n\n")
	id := env.addUser(t, "Bob", "bob@x.io", "pw-bob", models.RoleUser, models.StatusActive)
	env.loginAs(t, "bob@x.io", "pw-bob")

	require.ErrorIs(t, env.app.DeleteAccount(ctx), errCanceled)
	env.requireOutput(t, "Account deletion canceled.")

	_, ok := env.server.Lookup(id)
	require.True(t, ok)
	_, ok = env.store.Get(ctx)
	require.True(t, ok)
}
