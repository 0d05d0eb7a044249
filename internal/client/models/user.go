// Package models defines the client-side view of accounts and sessions.
package models

import "strings"

// Role is assigned by the remote authority; the client never derives it.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status is the account lifecycle state: pending until an admin activates it.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

// User is an account as reported by the remote authority. Role and Status may
// be empty when the endpoint that returned the user does not expose them
// (e.g. the pending-users listing).
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role,omitempty"`
	Status Status `json:"status,omitempty"`
}

// IsAdmin reports whether the remote authority granted the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName prefers the name and falls back to the email.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// UserUpdate is a partial profile update. Nil fields are left unchanged.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil
}

// Registration carries the sign-up form.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// FullName is the name sent to the remote authority.
func (r Registration) FullName() string {
	return strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName)
}

// AdminOverview is what the admin dashboard shows on load.
type AdminOverview struct {
	Pending []User
	UserIDs []int64
}
