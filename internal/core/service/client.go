package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/core/ports"
)

// Client is the facade the admin UI talks to, mirroring the legacy SDK's
// shape: entity registry, identity, named functions, and integrations. It is
// constructed once in main and injected; there is no hidden global state.
type Client struct {
	Entities     *Registry
	Auth         ports.Identity
	Functions    *Functions
	Integrations *Integrations
}

func NewClient(entities *Registry, auth ports.Identity, storage ports.ObjectStorage, logger zerolog.Logger) *Client {
	return &Client{
		Entities:     entities,
		Auth:         auth,
		Functions:    &Functions{logger: logger},
		Integrations: NewIntegrations(storage, logger),
	}
}

// Functions holds the named side-effect operations the legacy SDK exposed.
type Functions struct {
	logger zerolog.Logger
}

// CaptchaResult is the verification outcome reported to the UI.
type CaptchaResult struct {
	Success bool `json:"success"`
}

// VerifyHcaptcha unconditionally reports success. Real verification is an
// external collaborator concern; the stub keeps the call surface stable.
func (f *Functions) VerifyHcaptcha(_ context.Context, _ string) CaptchaResult {
	f.logger.Warn().Msg("verifyHcaptcha not yet implemented")
	return CaptchaResult{Success: true}
}
