package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flightbay/flightbay/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func doScoped(t *testing.T, h http.Handler, scopes []string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, scopes, time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAnyScope(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := httpx.Chain(ok,
		httpx.AuthnMiddleware(authnVerifier()),
		httpx.RequireAnyScope("booking:manage"),
	)

	t.Run("scope present", func(t *testing.T) {
		rec := doScoped(t, h, []string{"flight:read", "booking:manage"})
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("scope missing", func(t *testing.T) {
		rec := doScoped(t, h, []string{"flight:read"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
		require.Contains(t, rec.Body.String(), "insufficient_scope")
	})
}

func TestRequireAllScopes(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := httpx.Chain(ok,
		httpx.AuthnMiddleware(authnVerifier()),
		httpx.RequireAllScopes("flight:read", "flight:write"),
	)

	t.Run("all present", func(t *testing.T) {
		rec := doScoped(t, h, []string{"flight:read", "flight:write"})
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("one missing", func(t *testing.T) {
		rec := doScoped(t, h, []string{"flight:read"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
