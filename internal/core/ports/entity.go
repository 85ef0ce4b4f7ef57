package ports

import (
	"context"

	"github.com/exlity/admin-backend/internal/core/domain"
)

// Entity is the complete call surface every entity exposes, identity entity
// included. It mirrors the legacy SDK contract the data layer emulates, so it
// stays a drop-in replacement for consumers of that SDK.
//
// Filter conditions are a conjunction: a scalar value is an equality test, a
// slice value an inclusion test. There is no inequality, range, or boolean
// composition by design.
type Entity interface {
	List(ctx context.Context, orderBy string, limit int) ([]domain.Record, error)
	Filter(ctx context.Context, conditions map[string]any, orderBy string, limit int) ([]domain.Record, error)
	Get(ctx context.Context, id string) (domain.Record, error)
	Create(ctx context.Context, data domain.Record) (domain.Record, error)
	Update(ctx context.Context, id string, data domain.Record) (domain.Record, error)
	Delete(ctx context.Context, id string) error
}

// EntityResolver hands out entity instances by name. Resolving the same name
// twice returns the identical cached instance.
type EntityResolver interface {
	Resolve(name string) Entity
	Keys() []string
}

// LoginResult is what a login attempt yields: a session for the password
// flow, or a redirect URL for federated providers.
type LoginResult struct {
	Session     *domain.Session `json:"session,omitempty"`
	RedirectURL string          `json:"redirect_url,omitempty"`
}

// Identity extends the entity surface with authentication-aware operations
// bound to the users table.
type Identity interface {
	Entity

	// Me resolves the caller, provisioning a users row on first login and
	// keeping the bootstrap account's admin role self-healing. Fails with
	// domain.ErrNotAuthenticated when no valid session exists.
	Me(ctx context.Context) (domain.Record, error)

	// UpdateMyUserData applies a partial update to the caller's own row.
	// Returns nil when the row has gone away.
	UpdateMyUserData(ctx context.Context, data domain.Record) (domain.Record, error)

	// Login signs in via the named provider; "dev" (or empty) runs the
	// bootstrap email/password flow, anything else delegates to OAuth.
	Login(ctx context.Context, provider string) (*LoginResult, error)

	Logout(ctx context.Context) error

	// IsAuthenticated never fails; every error reduces to false.
	IsAuthenticated(ctx context.Context) bool

	// CurrentUser is Me with not-authenticated flattened to nil, nil.
	CurrentUser(ctx context.Context) (domain.Record, error)
}

// AuditSink receives entity mutation events for asynchronous recording.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
