package client

import (
	"context"

	"github.com/dmitrijs2005/dashgate/internal/client/models"
)

// Client is the remote authentication/user API. Every method takes the bearer
// token to present; an empty token sends the request without credentials.
type Client interface {
	Token(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, token string, name, email, password string) (*models.User, error)
	Me(ctx context.Context, token string) (*models.User, error)
	IsLoggedIn(ctx context.Context, token string) (bool, error)
	UpdateUser(ctx context.Context, token string, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, token string, id int64) error
	LogoutEverywhere(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error

	PendingUsers(ctx context.Context, token string) ([]models.User, error)
	ActivateUser(ctx context.Context, token string, id int64) (*models.User, error)
	UserIDs(ctx context.Context, token string) ([]int64, error)
	User(ctx context.Context, token string, id int64) (*models.User, error)
}
