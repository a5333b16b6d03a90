package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/flightbay/flightbay/internal/auth/registry"
	"github.com/flightbay/flightbay/internal/auth/service"
	"github.com/flightbay/flightbay/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var signingKey = []byte("0123456789abcdef0123456789abcdef")

const testClients = `
clients:
  - id: demo-client
    name: Demo flight worker
    secret: demo-secret
    scopes:
      - flight:read
      - booking:manage
`

func newTokenService(t *testing.T) *service.TokenService {
	t.Helper()

	reg, err := registry.Load(strings.NewReader(testClients))
	require.NoError(t, err)

	signer, err := jwtx.NewSignerHS256("", signingKey)
	require.NoError(t, err)

	return &service.TokenService{
		Signer:    signer,
		Registry:  reg,
		Issuer:    "flightbay-auth",
		Audience:  []string{"flightbay-api"},
		AccessTTL: time.Hour,
	}
}

func TestIssueClientCredentials(t *testing.T) {
	svc := newTokenService(t)
	ctx := context.Background()

	t.Run("defaults to full allowance when no scopes requested", func(t *testing.T) {
		token, err := svc.IssueClientCredentials(ctx, "demo-client", "demo-secret", nil)
		require.NoError(t, err)
		require.Equal(t, "Bearer", token.TokenType)
		require.Equal(t, time.Hour, token.ExpiresIn)
		require.Equal(t, "flight:read booking:manage", token.Scope)
	})

	t.Run("grants requested subset", func(t *testing.T) {
		token, err := svc.IssueClientCredentials(ctx, "demo-client", "demo-secret", []string{"flight:read"})
		require.NoError(t, err)
		require.Equal(t, "flight:read", token.Scope)
	})

	t.Run("dedupes repeated scopes", func(t *testing.T) {
		token, err := svc.IssueClientCredentials(ctx, "demo-client", "demo-secret",
			[]string{"flight:read", "flight:read"})
		require.NoError(t, err)
		require.Equal(t, "flight:read", token.Scope)
	})

	t.Run("rejects scope outside allowance", func(t *testing.T) {
		_, err := svc.IssueClientCredentials(ctx, "demo-client", "demo-secret", []string{"admin"})
		require.ErrorIs(t, err, service.ErrInvalidScope)
	})

	t.Run("rejects mixed request containing a disallowed scope", func(t *testing.T) {
		_, err := svc.IssueClientCredentials(ctx, "demo-client", "demo-secret",
			[]string{"flight:read", "admin"})
		require.ErrorIs(t, err, service.ErrInvalidScope)
	})

	t.Run("rejects unknown client", func(t *testing.T) {
		_, err := svc.IssueClientCredentials(ctx, "ghost", "demo-secret", nil)
		require.ErrorIs(t, err, service.ErrInvalidClient)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		_, err := svc.IssueClientCredentials(ctx, "demo-client", "wrong", nil)
		require.ErrorIs(t, err, service.ErrInvalidClient)
	})
}

func TestIssuedTokenVerifies(t *testing.T) {
	svc := newTokenService(t)

	token, err := svc.IssueClientCredentials(context.Background(), "demo-client", "demo-secret", nil)
	require.NoError(t, err)

	v := jwtx.NewVerifierHS256(signingKey, jwtx.VerifyOptions{
		Issuer:   "flightbay-auth",
		Audience: []string{"flightbay-api"},
	})

	claims, err := v.Verify(token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "demo-client", claims.Subject)
	require.Equal(t, "demo-client", claims.ClientID)
	require.Equal(t, []string{"flight:read", "booking:manage"}, claims.Scopes)
	require.Equal(t, "flightbay-auth", claims.Issuer)

	// Expiry is AccessTTL from issuance.
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssuedTokenFailsForeignVerifier(t *testing.T) {
	svc := newTokenService(t)

	token, err := svc.IssueClientCredentials(context.Background(), "demo-client", "demo-secret", nil)
	require.NoError(t, err)

	t.Run("wrong issuer", func(t *testing.T) {
		v := jwtx.NewVerifierHS256(signingKey, jwtx.VerifyOptions{
			Issuer:   "someone-else",
			Audience: []string{"flightbay-api"},
		})
		_, err := v.Verify(token.AccessToken)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		v := jwtx.NewVerifierHS256(signingKey, jwtx.VerifyOptions{
			Issuer:   "flightbay-auth",
			Audience: []string{"other-api"},
		})
		_, err := v.Verify(token.AccessToken)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})
}
