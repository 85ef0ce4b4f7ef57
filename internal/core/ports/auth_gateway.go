package ports

import (
	"context"

	"github.com/exlity/admin-backend/internal/core/domain"
)

// AuthGateway is the interface to the hosted backend's auth subsystem.
//
// User classifies failures into the domain sentinels the identity layer keys
// on: domain.ErrSessionMissing (no token), domain.ErrSessionStale (token's
// principal no longer exists), domain.ErrNotAuthenticated / domain.ErrForbidden
// for rejected tokens. Anything else is surfaced unchanged.
type AuthGateway interface {
	User(ctx context.Context, accessToken string) (*domain.Principal, error)
	SignOut(ctx context.Context, accessToken string) error
	PasswordSignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.Session, error)
	OAuthURL(provider, redirectTo string) (string, error)
}
