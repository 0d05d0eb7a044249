package models

// VerdictState is the outcome of one authentication evaluation.
type VerdictState int

const (
	VerdictUnknown VerdictState = iota
	VerdictUnauthenticated
	VerdictAuthenticated
)

func (s VerdictState) String() string {
	switch s {
	case VerdictUnauthenticated:
		return "unauthenticated"
	case VerdictAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Verdict is derived per gated view and must not be cached: the remote
// authority may revoke the token between two views.
type Verdict struct {
	State VerdictState
	User  *User // set only when State is VerdictAuthenticated
}

func Unauthenticated() Verdict {
	return Verdict{State: VerdictUnauthenticated}
}

func Authenticated(u *User) Verdict {
	return Verdict{State: VerdictAuthenticated, User: u}
}

func (v Verdict) IsAuthenticated() bool {
	return v.State == VerdictAuthenticated && v.User != nil
}

// Destination is where a visitor lands after the routing decision.
type Destination int

const (
	DestinationLogin Destination = iota
	DestinationUserDashboard
	DestinationAdminDashboard
)

// Path is the route the destination is served under.
func (d Destination) Path() string {
	switch d {
	case DestinationUserDashboard:
		return "/dashboard"
	case DestinationAdminDashboard:
		return "/admin"
	default:
		return "/login"
	}
}

func (d Destination) String() string {
	switch d {
	case DestinationUserDashboard:
		return "user dashboard"
	case DestinationAdminDashboard:
		return "admin dashboard"
	default:
		return "login"
	}
}
