package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second

	// The backend reports a valid token whose principal has been deleted with
	// this message. The identity layer treats it as a stale session.
	staleSubMessage = "User from sub claim in JWT does not exist"
)

// Gateway talks to the hosted backend's GoTrue-compatible auth API. Every
// request carries the project's anon key; user-scoped calls additionally carry
// the caller's bearer token.
type Gateway struct {
	baseURL string
	anonKey string
	client  *http.Client
	logger  zerolog.Logger
}

var _ ports.AuthGateway = (*Gateway)(nil)

func NewGateway(baseURL, anonKey string, logger zerolog.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger.With().Str("component", "auth_gateway").Logger(),
	}
}

// gotrueUser is the wire shape of the backend's user object, reduced to the
// fields the identity layer consumes.
type gotrueUser struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

func (u *gotrueUser) principal() *domain.Principal {
	return &domain.Principal{
		ID:               u.ID,
		Email:            u.Email,
		EmailConfirmedAt: u.EmailConfirmedAt,
		Metadata:         u.UserMetadata,
	}
}

type gotrueError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e *gotrueError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Msg != "":
		return e.Msg
	default:
		return e.ErrorDescription
	}
}

// User resolves the principal behind an access token.
func (g *Gateway) User(ctx context.Context, accessToken string) (*domain.Principal, error) {
	if accessToken == "" {
		return nil, domain.ErrSessionMissing
	}

	var user gotrueUser
	if err := g.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return user.principal(), nil
}

// SignOut revokes the token's session at the backend.
func (g *Gateway) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return domain.ErrSessionMissing
	}
	return g.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// PasswordSignIn exchanges email and password for a session.
func (g *Gateway) PasswordSignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	var session domain.Session
	err := g.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", map[string]any{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers a new account. The metadata map lands in the user's
// profile metadata.
func (g *Gateway) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.Session, error) {
	var session domain.Session
	err := g.do(ctx, http.MethodPost, "/auth/v1/signup", "", map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// OAuthURL builds the backend's authorize URL for the given provider,
// returning the caller to redirectTo when the flow completes.
func (g *Gateway) OAuthURL(provider, redirectTo string) (string, error) {
	if provider == "" {
		return "", fmt.Errorf("oauth: provider is required")
	}
	query := url.Values{}
	query.Set("provider", provider)
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	return g.baseURL + "/auth/v1/authorize?" + query.Encode(), nil
}

func (g *Gateway) do(ctx context.Context, method, path, accessToken string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("auth request encode: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("auth request build: %w", err)
	}
	req.Header.Set("apikey", g.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return g.classify(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("auth response decode: %w", err)
	}
	return nil
}

// classify maps backend rejections onto the domain sentinels. A 403 carrying
// the deleted-principal message is a stale session; any other 403 is a plain
// permission denial, and a 401 is an invalid or expired token.
func (g *Gateway) classify(resp *http.Response) error {
	var payload gotrueError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &payload)
	message := payload.text()

	if strings.Contains(message, staleSubMessage) {
		return fmt.Errorf("%s: %w", message, domain.ErrSessionStale)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("auth backend rejected token: %w", domain.ErrNotAuthenticated)
	case http.StatusForbidden:
		return fmt.Errorf("auth backend denied request: %w", domain.ErrForbidden)
	default:
		if message == "" {
			message = strings.TrimSpace(string(raw))
		}
		return fmt.Errorf("auth backend error (status %d): %s", resp.StatusCode, message)
	}
}
