package services

import (
	"errors"

	"github.com/dmitrijs2005/dashgate/internal/client/client"
)

// Fallback messages shown when the server gives no detail.
const (
	MsgLoginFailed        = "Invalid email or password. Please try again."
	MsgRegisterFailed     = "Registration failed. Please try again."
	MsgUpdateFailed       = "Failed to update user information."
	MsgDeleteFailed       = "Failed to delete your account."
	MsgResetRequestFailed = "Failed to send password reset email."
	MsgResetConfirmFailed = "Failed to reset password."
	MsgLogoutFailed       = "Failed to log out."
	MsgAdminFetchFailed   = "Failed to load admin data."
	MsgActivateFailed     = "Failed to activate user."
	MsgUserFetchFailed    = "Failed to load user details."
)

// UserMessage returns what to show for err: the server's detail when it sent
// one, the reason local input was rejected, fallback otherwise.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if detail := client.Detail(err); detail != "" {
		return detail
	}

	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Err.Error()
	}
	if errors.Is(err, client.ErrUnauthenticated) {
		return "You are not logged in."
	}
	return fallback
}
