package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/dashgate/internal/client/client"
	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/dmitrijs2005/dashgate/internal/logging"
)

// SessionGuard decides whether the visitor is authenticated and where they
// land. Nothing is cached: every call asks the server again.
type SessionGuard struct {
	auth AuthService
	log  logging.Logger
}

func NewSessionGuard(auth AuthService, log logging.Logger) *SessionGuard {
	if log == nil {
		log = logging.Nop()
	}
	return &SessionGuard{auth: auth, log: log}
}

// IsAuthenticated is false without a request when no token is held and false
// on any failure.
func (g *SessionGuard) IsAuthenticated(ctx context.Context) bool {
	return g.auth.CheckSessionValid(ctx)
}

// Evaluate resolves the current identity into a Verdict.
func (g *SessionGuard) Evaluate(ctx context.Context) models.Verdict {
	u, err := g.auth.WhoAmI(ctx)
	if err != nil {
		if !errors.Is(err, client.ErrUnauthenticated) {
			g.log.Warn(ctx, "error resolving identity", "error", err)
		}
		return models.Unauthenticated()
	}
	return models.Authenticated(u)
}

// ResolveLandingRoute picks the destination for the visitor: login when the
// identity cannot be resolved, the admin dashboard for admins, the user
// dashboard otherwise.
func (g *SessionGuard) ResolveLandingRoute(ctx context.Context) models.Destination {
	v := g.Evaluate(ctx)
	switch {
	case !v.IsAuthenticated():
		return models.DestinationLogin
	case v.User.IsAdmin():
		return models.DestinationAdminDashboard
	default:
		return models.DestinationUserDashboard
	}
}

// AdminAccessPolicy grants admin views. Advisory only: the server enforces
// the role on every admin endpoint regardless.
type AdminAccessPolicy struct {
	guard *SessionGuard
	auth  AuthService
	log   logging.Logger
}

func NewAdminAccessPolicy(guard *SessionGuard, auth AuthService, log logging.Logger) *AdminAccessPolicy {
	if log == nil {
		log = logging.Nop()
	}
	return &AdminAccessPolicy{guard: guard, auth: auth, log: log}
}

// IsAdminAuthenticated is true only for a valid session whose user has the
// admin role. Any failure denies.
func (p *AdminAccessPolicy) IsAdminAuthenticated(ctx context.Context) bool {
	if !p.guard.IsAuthenticated(ctx) {
		return false
	}

	u, err := p.auth.WhoAmI(ctx)
	if err != nil {
		p.log.Warn(ctx, "error checking admin authentication", "error", err)
		return false
	}
	return u.IsAdmin()
}
