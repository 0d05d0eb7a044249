package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/dashgate/internal/client/client"
	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T, fc *fakeClient, token string) (*SessionGuard, *AdminAccessPolicy) {
	t.Helper()
	auth, _ := newAuth(t, fc, token)
	guard := NewSessionGuard(auth, nil)
	return guard, NewAdminAccessPolicy(guard, auth, nil)
}

func TestIsAuthenticated_NoToken_ZeroRequests(t *testing.T) {
	fc := &fakeClient{LoggedInRet: true}
	guard, _ := newGuard(t, fc, "")

	require.False(t, guard.IsAuthenticated(context.Background()))
	require.Zero(t, fc.TotalCalls())
}

func TestIsAuthenticated_NotCached(t *testing.T) {
	fc := &fakeClient{LoggedInRet: true}
	guard, _ := newGuard(t, fc, "tok")
	ctx := context.Background()

	require.True(t, guard.IsAuthenticated(ctx))

	fc.LoggedInErr = client.ErrUnauthenticated
	require.False(t, guard.IsAuthenticated(ctx))
	require.Equal(t, 2, fc.Calls("IsLoggedIn"))
}

func TestIsAuthenticated_TransientFailureFailsClosed(t *testing.T) {
	fc := &fakeClient{LoggedInErr: client.ErrUnavailable}
	guard, _ := newGuard(t, fc, "tok")
	require.False(t, guard.IsAuthenticated(context.Background()))
}

func TestEvaluate(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		fc := &fakeClient{}
		guard, _ := newGuard(t, fc, "")
		v := guard.Evaluate(context.Background())
		require.Equal(t, models.VerdictUnauthenticated, v.State)
		require.Nil(t, v.User)
		require.Zero(t, fc.TotalCalls())
	})
	t.Run("resolved", func(t *testing.T) {
		fc := &fakeClient{MeRet: &models.User{ID: 2, Role: models.RoleUser}}
		guard, _ := newGuard(t, fc, "tok")
		v := guard.Evaluate(context.Background())
		require.True(t, v.IsAuthenticated())
		require.Equal(t, int64(2), v.User.ID)
	})
	t.Run("server down", func(t *testing.T) {
		fc := &fakeClient{MeErr: client.ErrUnavailable}
		guard, _ := newGuard(t, fc, "tok")
		require.False(t, guard.Evaluate(context.Background()).IsAuthenticated())
	})
}

func TestResolveLandingRoute(t *testing.T) {
	tests := []struct {
		name  string
		token string
		me    *models.User
		meErr error
		want  models.Destination
	}{
		{"no token", "", nil, nil, models.DestinationLogin},
		{"rejected token", "tok", nil, client.ErrUnauthenticated, models.DestinationLogin},
		{"unreachable", "tok", nil, client.ErrUnavailable, models.DestinationLogin},
		{"admin", "tok", &models.User{ID: 1, Role: models.RoleAdmin}, nil, models.DestinationAdminDashboard},
		{"user", "tok", &models.User{ID: 2, Role: models.RoleUser}, nil, models.DestinationUserDashboard},
		{"role missing", "tok", &models.User{ID: 3}, nil, models.DestinationUserDashboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{MeRet: tt.me, MeErr: tt.meErr}
			guard, _ := newGuard(t, fc, tt.token)
			require.Equal(t, tt.want, guard.ResolveLandingRoute(context.Background()))
		})
	}
}

func TestIsAdminAuthenticated(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		loggedIn bool
		liErr    error
		me       *models.User
		meErr    error
		want     bool
	}{
		{"no token", "", true, nil, &models.User{Role: models.RoleAdmin}, nil, false},
		{"session invalid", "tok", false, nil, &models.User{Role: models.RoleAdmin}, nil, false},
		{"session check fails", "tok", true, client.ErrUnavailable, &models.User{Role: models.RoleAdmin}, nil, false},
		{"identity fails", "tok", true, nil, nil, client.ErrUnavailable, false},
		{"regular user", "tok", true, nil, &models.User{Role: models.RoleUser}, nil, false},
		{"admin", "tok", true, nil, &models.User{Role: models.RoleAdmin}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{LoggedInRet: tt.loggedIn, LoggedInErr: tt.liErr, MeRet: tt.me, MeErr: tt.meErr}
			_, policy := newGuard(t, fc, tt.token)
			require.Equal(t, tt.want, policy.IsAdminAuthenticated(context.Background()))
		})
	}
}

func TestIsAdminAuthenticated_SkipsIdentityWhenSessionInvalid(t *testing.T) {
	fc := &fakeClient{LoggedInErr: client.ErrUnauthenticated, MeRet: &models.User{Role: models.RoleAdmin}}
	_, policy := newGuard(t, fc, "tok")

	require.False(t, policy.IsAdminAuthenticated(context.Background()))
	require.Zero(t, fc.Calls("Me"))
}
