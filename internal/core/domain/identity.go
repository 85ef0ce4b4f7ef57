package domain

import (
	"context"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	// Bootstrap account: a fixed development identity that is always granted
	// the admin role on first provisioning and self-heals back to admin on
	// every session resolution.
	BootstrapEmail    = "dev@localhost.com"
	BootstrapPassword = "dev123456"
	BootstrapFullName = "Development User"
)

// Principal is the identity resolved from the auth backend's session token.
// It is distinct from the users-table Record: the principal lives in the auth
// subsystem, the record in application storage.
type Principal struct {
	ID               string
	Email            string
	EmailConfirmedAt *time.Time
	Metadata         map[string]any
}

// FullName returns the profile full name from metadata, falling back to the
// email address.
func (p *Principal) FullName() string {
	if name, ok := p.Metadata["full_name"].(string); ok && name != "" {
		return name
	}
	return p.Email
}

// EmailVerified mirrors the auth backend's confirmation state.
func (p *Principal) EmailVerified() bool {
	return p.EmailConfirmedAt != nil
}

// Session holds the tokens issued by the auth backend.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// AuditEvent describes one entity mutation for the audit trail.
type AuditEvent struct {
	Entity     string
	Table      string
	Operation  string
	RecordID   string
	ActorID    string
	OccurredAt time.Time
}

type contextKey int

const accessTokenKey contextKey = iota

// WithAccessToken attaches the caller's session token to the context. The
// identity layer resolves the caller per-call from this token; nothing is
// stored server-side.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// AccessToken returns the session token attached to the context, if any.
func AccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	return token, ok && token != ""
}
