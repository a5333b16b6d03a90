package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flightbay/flightbay/pkg/httpx"
	"github.com/flightbay/flightbay/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var authnTestKey = []byte("0123456789abcdef0123456789abcdef")

func issueTestToken(t *testing.T, scopes []string, ttl time.Duration) string {
	t.Helper()

	signer, err := jwtx.NewSignerHS256("test-key", authnTestKey)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		"demo-client", "demo-client", scopes, ttl,
		"flightbay-auth", []string{"flightbay-api"}, time.Now().UTC(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := httpx.ClaimsFromContext(r.Context())
		require.True(t, ok, "claims must be attached to request context")
		_, _ = w.Write([]byte(claims.ClientID))
	})
}

func authnVerifier() jwtx.Verifier {
	return jwtx.NewVerifierHS256(authnTestKey, jwtx.VerifyOptions{
		Issuer:   "flightbay-auth",
		Audience: []string{"flightbay-api"},
	})
}

func TestAuthnMiddlewareAcceptsValidToken(t *testing.T) {
	h := httpx.Chain(protectedEcho(t), httpx.AuthnMiddleware(authnVerifier()))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, []string{"flight:read"}, time.Hour))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "demo-client", rec.Body.String())
}

func TestAuthnMiddlewareMissingHeader(t *testing.T) {
	h := httpx.Chain(protectedEcho(t), httpx.AuthnMiddleware(authnVerifier()))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	require.Contains(t, rec.Body.String(), httpx.BearerErrorInvalidToken)
}

func TestAuthnMiddlewareGarbageToken(t *testing.T) {
	h := httpx.Chain(protectedEcho(t), httpx.AuthnMiddleware(authnVerifier()))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), httpx.BearerErrorInvalidToken)
}

func TestAuthnMiddlewareExpiredToken(t *testing.T) {
	h := httpx.Chain(protectedEcho(t), httpx.AuthnMiddleware(authnVerifier()))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, nil, -time.Minute))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), httpx.BearerErrorExpiredToken)

	// Header and body must report the same error code
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="expired_token"`)
}
