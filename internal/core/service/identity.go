package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

const usersTable = "users"

// IdentityService is the users-table entity plus authentication-aware
// operations. It composes a Generic Record Entity bound to the users table on
// the service-role connection with the auth backend's session mechanism: the
// session resolves the caller, the elevated connection reads and writes rows.
type IdentityService struct {
	users     *EntityService
	store     ports.RecordStore // service-role store, direct access for Get/Me
	gateway   ports.AuthGateway
	appOrigin string
	logger    zerolog.Logger
}

var _ ports.Identity = (*IdentityService)(nil)

func NewIdentityService(store ports.RecordStore, gateway ports.AuthGateway, appOrigin string, logger zerolog.Logger) *IdentityService {
	return &IdentityService{
		users:     NewEntityService(usersTable, true, store, logger),
		store:     store,
		gateway:   gateway,
		appOrigin: appOrigin,
		logger:    logger.With().Str("component", "identity").Logger(),
	}
}

// List passes through to the generic users entity; users-table listing always
// runs on the service-role connection.
func (s *IdentityService) List(ctx context.Context, orderBy string, limit int) ([]domain.Record, error) {
	return s.users.List(ctx, orderBy, limit)
}

// Filter passes through to the generic users entity.
func (s *IdentityService) Filter(ctx context.Context, conditions map[string]any, orderBy string, limit int) ([]domain.Record, error) {
	return s.users.Filter(ctx, conditions, orderBy, limit)
}

// Get fetches a user by id directly on the service-role connection. Unlike
// the generic entity, a missing users table propagates: that is a fatal
// misconfiguration, not a tolerable gap.
func (s *IdentityService) Get(ctx context.Context, id string) (domain.Record, error) {
	row, err := s.store.Get(ctx, usersTable, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("fetching user by id failed")
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return domain.FromStorageRecord(row), nil
}

func (s *IdentityService) Create(ctx context.Context, data domain.Record) (domain.Record, error) {
	return s.users.Create(ctx, data)
}

func (s *IdentityService) Update(ctx context.Context, id string, data domain.Record) (domain.Record, error) {
	return s.users.Update(ctx, id, data)
}

func (s *IdentityService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

// resolvePrincipal resolves the caller's identity from the session token on
// the context, via the auth backend — never the elevated connection.
func (s *IdentityService) resolvePrincipal(ctx context.Context) (*domain.Principal, error) {
	token, ok := domain.AccessToken(ctx)
	if !ok {
		return nil, domain.ErrSessionMissing
	}
	return s.gateway.User(ctx, token)
}

// forceSignOut invalidates the caller's session so a stale or rejected token
// cannot be reused. Sign-out failures are deliberately ignored.
func (s *IdentityService) forceSignOut(ctx context.Context) {
	token, ok := domain.AccessToken(ctx)
	if !ok {
		return
	}
	if err := s.gateway.SignOut(ctx, token); err != nil {
		s.logger.Debug().Err(err).Msg("forced sign-out failed")
	}
}

// isAuthFailure matches the error conditions that must be normalized to a
// single not-authenticated error with a forced sign-out: permission denials
// and sessions referencing deleted principals.
func isAuthFailure(err error) bool {
	return errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrSessionStale) ||
		errors.Is(err, domain.ErrNotAuthenticated)
}

// Me returns the caller's users-table record, synthesizing it from the auth
// principal on first login. The bootstrap account is always admin after any
// Me call: it is provisioned with the admin role and promoted back to admin
// if its row ever lost it.
func (s *IdentityService) Me(ctx context.Context) (domain.Record, error) {
	principal, err := s.resolvePrincipal(ctx)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionStale):
			s.forceSignOut(ctx)
			return nil, domain.ErrNotAuthenticated
		case errors.Is(err, domain.ErrSessionMissing):
			// Expected for anonymous callers; not worth logging.
			return nil, domain.ErrNotAuthenticated
		default:
			s.logger.Error().Err(err).Msg("session resolution failed")
			return nil, domain.ErrNotAuthenticated
		}
	}
	if principal == nil {
		return nil, domain.ErrNotAuthenticated
	}

	row, err := s.store.Get(ctx, usersTable, principal.ID)
	if err != nil {
		if isAuthFailure(err) {
			s.forceSignOut(ctx)
			return nil, domain.ErrNotAuthenticated
		}
		s.logger.Error().Err(err).Str("id", principal.ID).Msg("fetching user failed")
		return nil, err
	}

	if row == nil {
		return s.provisionUser(ctx, principal)
	}

	// Self-healing invariant: the bootstrap account is always admin.
	if principal.Email == domain.BootstrapEmail && row["role"] != domain.RoleAdmin {
		updated, err := s.store.Update(ctx, usersTable, principal.ID, domain.Record{"role": domain.RoleAdmin})
		if err != nil {
			s.logger.Error().Err(err).Msg("promoting bootstrap account to admin failed")
		} else if updated != nil {
			s.logger.Info().Msg("bootstrap account promoted to admin")
			return domain.FromStorageRecord(updated), nil
		}
	}

	return domain.FromStorageRecord(row), nil
}

// provisionUser synthesizes a users row from the auth principal: id and email
// from the principal, full name from profile metadata (falling back to the
// email), email-verified mirroring the session's confirmation state, and a
// baseline role — admin when the principal is the bootstrap account.
func (s *IdentityService) provisionUser(ctx context.Context, principal *domain.Principal) (domain.Record, error) {
	role := domain.RoleUser
	if principal.Email == domain.BootstrapEmail {
		role = domain.RoleAdmin
	}

	created, err := s.store.Insert(ctx, usersTable, domain.Record{
		"id":             principal.ID,
		"email":          principal.Email,
		"full_name":      principal.FullName(),
		"email_verified": principal.EmailVerified(),
		"role":           role,
	})
	if err != nil {
		if isAuthFailure(err) {
			s.forceSignOut(ctx)
			return nil, domain.ErrNotAuthenticated
		}
		s.logger.Error().Err(err).Str("id", principal.ID).Msg("creating user failed")
		return nil, err
	}
	s.logger.Info().Str("id", principal.ID).Str("role", role).Msg("user provisioned from auth principal")
	return domain.FromStorageRecord(created), nil
}

// UpdateMyUserData applies a field-mapped partial update to the caller's own
// row on the elevated connection, stamping updated_at. Returns nil when the
// row has gone away.
func (s *IdentityService) UpdateMyUserData(ctx context.Context, data domain.Record) (domain.Record, error) {
	principal, err := s.resolvePrincipal(ctx)
	if err != nil || principal == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return s.users.Update(ctx, principal.ID, data)
}

// Login signs the caller in. The "dev" provider (also the default) runs the
// bootstrap email/password flow, registering the account on first use; any
// other provider delegates to the backend's OAuth flow, redirecting back to
// the application origin.
func (s *IdentityService) Login(ctx context.Context, provider string) (*ports.LoginResult, error) {
	if provider == "" || provider == "dev" {
		return s.devLogin(ctx)
	}

	redirect, err := s.gateway.OAuthURL(provider, s.appOrigin)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{RedirectURL: redirect}, nil
}

func (s *IdentityService) devLogin(ctx context.Context) (*ports.LoginResult, error) {
	session, err := s.gateway.PasswordSignIn(ctx, domain.BootstrapEmail, domain.BootstrapPassword)
	if err == nil {
		return &ports.LoginResult{Session: session}, nil
	}

	s.logger.Info().Err(err).Msg("dev sign-in failed, attempting to register bootstrap account")
	if _, err := s.gateway.SignUp(ctx, domain.BootstrapEmail, domain.BootstrapPassword, map[string]any{
		"full_name": domain.BootstrapFullName,
		"role":      domain.RoleAdmin,
	}); err != nil {
		s.logger.Error().Err(err).Msg("bootstrap sign-up failed")
		return nil, err
	}

	session, err = s.gateway.PasswordSignIn(ctx, domain.BootstrapEmail, domain.BootstrapPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("sign-in after bootstrap sign-up failed")
		return nil, err
	}
	return &ports.LoginResult{Session: session}, nil
}

// Logout invalidates the caller's session at the backend.
func (s *IdentityService) Logout(ctx context.Context) error {
	token, ok := domain.AccessToken(ctx)
	if !ok {
		return domain.ErrNotAuthenticated
	}
	return s.gateway.SignOut(ctx, token)
}

// IsAuthenticated reports whether a principal resolves for the caller's
// session. It never fails: a stale session is signed out and, like every
// other error, reduces to false.
func (s *IdentityService) IsAuthenticated(ctx context.Context) bool {
	principal, err := s.resolvePrincipal(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionStale) {
			s.forceSignOut(ctx)
		}
		return false
	}
	return principal != nil
}

// CurrentUser returns the caller's record, or nil, nil when not
// authenticated. Any other failure propagates.
func (s *IdentityService) CurrentUser(ctx context.Context) (domain.Record, error) {
	row, err := s.Me(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}
