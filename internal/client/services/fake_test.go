package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/dashgate/internal/client/client"
	"github.com/dmitrijs2005/dashgate/internal/client/models"
)

// ---- fake client ----

// fakeClient implements client.Client for unit tests. It keeps a tiny
// pending list so activation and refresh behave like the server's.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	TokenRet string
	TokenErr error

	RegisterRet *models.User
	RegisterErr error

	MeRet *models.User
	MeErr error

	LoggedInRet bool
	LoggedInErr error

	UpdateRet *models.User
	UpdateErr error

	DeleteErr           error
	LogoutEverywhereErr error
	ResetRequestErr     error
	ResetConfirmErr     error

	Pending    []models.User
	PendingErr error
	ActivateErr error
	IDs        []int64
	IDsErr     error
	UserRet    *models.User
	UserErr    error

	// for argument checks
	LastToken      string
	LastUsername   string
	LastPassword   string
	LastName       string
	LastEmail      string
	LastUserID     int64
	LastUpdate     models.UserUpdate
	LastResetToken string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	f.LastToken = token
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeClient) Token(ctx context.Context, username, password string) (string, error) {
	f.record("Token", "")
	f.LastUsername, f.LastPassword = username, password
	if f.TokenErr != nil {
		return "", f.TokenErr
	}
	return f.TokenRet, nil
}

func (f *fakeClient) Register(ctx context.Context, token string, name, email, password string) (*models.User, error) {
	f.record("Register", token)
	f.LastName, f.LastEmail, f.LastPassword = name, email, password
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.User, error) {
	f.record("Me", token)
	return f.MeRet, f.MeErr
}

func (f *fakeClient) IsLoggedIn(ctx context.Context, token string) (bool, error) {
	f.record("IsLoggedIn", token)
	return f.LoggedInRet, f.LoggedInErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, token string, id int64, upd models.UserUpdate) (*models.User, error) {
	f.record("UpdateUser", token)
	f.LastUserID, f.LastUpdate = id, upd
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteUser(ctx context.Context, token string, id int64) error {
	f.record("DeleteUser", token)
	f.LastUserID = id
	return f.DeleteErr
}

func (f *fakeClient) LogoutEverywhere(ctx context.Context, token string) error {
	f.record("LogoutEverywhere", token)
	return f.LogoutEverywhereErr
}

func (f *fakeClient) RequestPasswordReset(ctx context.Context, email string) error {
	f.record("RequestPasswordReset", "")
	f.LastEmail = email
	return f.ResetRequestErr
}

func (f *fakeClient) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	f.record("ConfirmPasswordReset", "")
	f.LastResetToken, f.LastPassword = resetToken, newPassword
	return f.ResetConfirmErr
}

func (f *fakeClient) PendingUsers(ctx context.Context, token string) ([]models.User, error) {
	f.record("PendingUsers", token)
	if f.PendingErr != nil {
		return nil, f.PendingErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User(nil), f.Pending...), nil
}

func (f *fakeClient) ActivateUser(ctx context.Context, token string, id int64) (*models.User, error) {
	f.record("ActivateUser", token)
	if f.ActivateErr != nil {
		return nil, f.ActivateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUserID = id
	for i, u := range f.Pending {
		if u.ID == id {
			f.Pending = append(f.Pending[:i:i], f.Pending[i+1:]...)
			u.Status = models.StatusActive
			return &u, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Detail: "User not found", Kind: client.ErrNotFound}
}

func (f *fakeClient) UserIDs(ctx context.Context, token string) ([]int64, error) {
	f.record("UserIDs", token)
	return f.IDs, f.IDsErr
}

func (f *fakeClient) User(ctx context.Context, token string, id int64) (*models.User, error) {
	f.record("User", token)
	f.LastUserID = id
	return f.UserRet, f.UserErr
}
