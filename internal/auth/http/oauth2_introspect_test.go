package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	authhttp "github.com/flightbay/flightbay/internal/auth/http"
	"github.com/flightbay/flightbay/pkg/authsdk"
	"github.com/flightbay/flightbay/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func testVerifier() jwtx.Verifier {
	return jwtx.NewVerifierHS256(signingKey, jwtx.VerifyOptions{
		Issuer:   "flightbay-auth",
		Audience: []string{"flightbay-api"},
	})
}

func signTestToken(t *testing.T, ttl time.Duration) string {
	t.Helper()

	signer, err := jwtx.NewSignerHS256("", signingKey)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		"demo-client", "demo-client", []string{"flight:read"}, ttl,
		"flightbay-auth", []string{"flightbay-api"}, time.Now().UTC(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func postIntrospect(t *testing.T, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	h := &authhttp.IntrospectHandler{Verifier: testVerifier()}
	req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/introspect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIntrospectActiveToken(t *testing.T) {
	rec := postIntrospect(t, url.Values{"token": {signTestToken(t, time.Hour)}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authsdk.IntrospectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Active)
	require.Equal(t, "demo-client", resp.ClientID)
	require.Equal(t, "demo-client", resp.Sub)
	require.Equal(t, "flight:read", resp.Scope)
	require.Equal(t, "flightbay-auth", resp.Iss)
	require.NotZero(t, resp.Exp)
	require.NotEmpty(t, resp.Jti)
}

func TestIntrospectInactiveTokens(t *testing.T) {
	cases := map[string]url.Values{
		"expired token":   {"token": {signTestToken(t, -time.Minute)}},
		"garbage token":   {"token": {"not-a-jwt"}},
		"wrong type hint": {"token": {signTestToken(t, time.Hour)}, "token_type_hint": {"refresh_token"}},
	}

	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postIntrospect(t, form)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp authsdk.IntrospectionResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.False(t, resp.Active)
			require.Empty(t, resp.ClientID)
		})
	}
}

func TestIntrospectMissingToken(t *testing.T) {
	rec := postIntrospect(t, url.Values{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
