package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/flightbay/flightbay/pkg/jwtx"
	"github.com/flightbay/flightbay/pkg/slogx"
)

// Bearer error codes returned to callers. expired_token is split out from
// invalid_token so clients know a fresh token request will help.
const (
	BearerErrorInvalidToken = "invalid_token"
	BearerErrorExpiredToken = "expired_token"
)

// AuthnMiddleware extracts and verifies the bearer token on each request.
// On success the verified claims are attached to the request context; on any
// failure the request is rejected with 401 and never reaches the handler.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, BearerErrorInvalidToken, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				code := BearerErrorInvalidToken
				desc := "token verification failed"
				if errors.Is(err, jwtx.ErrExpired) {
					code = BearerErrorExpiredToken
					desc = "token expired"
				}
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, code, desc)
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyClientID, c.ClientID)
	ctx = context.WithValue(ctx, CtxKeyScopes, c.Scopes)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-compliant error response for bearer auth, with a machine-readable
// JSON body for non-browser clients.
func writeBearerError(w http.ResponseWriter, code, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             code,
		"error_description": desc,
	})
}
