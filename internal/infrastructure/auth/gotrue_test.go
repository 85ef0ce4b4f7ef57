package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exlity/admin-backend/internal/core/domain"
)

func TestGatewayUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":                 "u1",
			"email":              "person@example.com",
			"email_confirmed_at": "2024-01-01T00:00:00Z",
			"user_metadata":      map[string]any{"full_name": "Test User"},
		})
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "anon-key", zerolog.Nop())
	principal, err := gateway.User(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.ID)
	assert.Equal(t, "Test User", principal.FullName())
	assert.True(t, principal.EmailVerified())
}

func TestGatewayUser_EmptyToken(t *testing.T) {
	gateway := NewGateway("http://unused", "anon-key", zerolog.Nop())
	_, err := gateway.User(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSessionMissing)
}

func TestGatewayUser_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
		want   error
	}{
		{"expired token", http.StatusUnauthorized, map[string]any{"msg": "JWT expired"}, domain.ErrNotAuthenticated},
		{"denied", http.StatusForbidden, map[string]any{"msg": "forbidden"}, domain.ErrForbidden},
		{"deleted principal", http.StatusForbidden, map[string]any{"message": staleSubMessage}, domain.ErrSessionStale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			gateway := NewGateway(server.URL, "anon-key", zerolog.Nop())
			_, err := gateway.User(context.Background(), "token-1")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGatewayPasswordSignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, domain.BootstrapEmail, body["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at-1",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "anon-key", zerolog.Nop())
	session, err := gateway.PasswordSignIn(context.Background(), domain.BootstrapEmail, domain.BootstrapPassword)
	require.NoError(t, err)
	assert.Equal(t, "at-1", session.AccessToken)
	assert.EqualValues(t, 3600, session.ExpiresIn)
}

func TestGatewaySignUp_CarriesMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		metadata, ok := body["data"].(map[string]any)
		require.True(t, ok, "sign-up body must carry a data object, got %#v", body)
		assert.Equal(t, domain.BootstrapFullName, metadata["full_name"])

		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "at-2"})
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "anon-key", zerolog.Nop())
	_, err := gateway.SignUp(context.Background(), domain.BootstrapEmail, domain.BootstrapPassword, map[string]any{
		"full_name": domain.BootstrapFullName,
		"role":      domain.RoleAdmin,
	})
	require.NoError(t, err)
}

func TestGatewaySignOut(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "anon-key", zerolog.Nop())
	require.NoError(t, gateway.SignOut(context.Background(), "token-1"))
	assert.True(t, called)
}

func TestGatewayOAuthURL(t *testing.T) {
	gateway := NewGateway("http://127.0.0.1:54321/", "anon-key", zerolog.Nop())

	url, err := gateway.OAuthURL("google", "http://localhost:5173")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:54321/auth/v1/authorize?provider=google&redirect_to=http%3A%2F%2Flocalhost%3A5173", url)

	_, err = gateway.OAuthURL("", "")
	assert.Error(t, err)
}
