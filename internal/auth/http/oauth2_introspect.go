package http

import (
	"net/http"
	"strings"

	"github.com/flightbay/flightbay/internal/auth/domain"
	"github.com/flightbay/flightbay/internal/auth/service"
	"github.com/flightbay/flightbay/pkg/authsdk"
	"github.com/flightbay/flightbay/pkg/httpx"
	"github.com/flightbay/flightbay/pkg/jwtx"
	"github.com/flightbay/flightbay/pkg/slogx"
)

// IntrospectHandler serves POST /v1/oauth2/introspect following RFC7662.
// It verifies the provided token and returns metadata about it.
type IntrospectHandler struct {
	Verifier jwtx.Verifier

	// Audit records who introspected. Optional.
	Audit *service.AuditService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Introspection Endpoint
//	@Description	Introspects a token and returns metadata about it (RFC 7662)
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Security		BearerAuth
//	@Param			token			formData	string							true	"The token to introspect"
//	@Param			token_type_hint	formData	string							false	"Hint about token type (currently only 'access_token' is supported)"	Enums(access_token)
//	@Success		200				{object}	authsdk.IntrospectionResponse	"Token introspection result"
//	@Failure		400				{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401				{object}	authsdk.ErrorResponse			"error, error_description"
//	@Header			200				{string}	Cache-Control					"no-store"
//	@Header			200				{string}	Pragma							"no-cache"
//	@Router			/v1/oauth2/introspect [post].
func (h *IntrospectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	// 2. Parse the form body
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	token := r.Form.Get("token")
	tokenTypeHint := r.Form.Get("token_type_hint")

	if token == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// 3. We only support introspecting access tokens (JWTs).
	// If hint is provided and it's not access_token, return inactive.
	if tokenTypeHint != "" && tokenTypeHint != "access_token" {
		// Per RFC7662, return active=false without revealing why
		writeInactiveResponse(w)
		return
	}

	// 4. Verify the token. The verifier checks signature, expiry, issuer and
	// audience, so any failure maps to an inactive token.
	claims, err := h.Verifier.Verify(token)
	if err != nil {
		log.Debug("token verification failed during introspection", "error", err)

		h.record(r, "inactive")

		// Per RFC7662, return active=false without revealing why
		writeInactiveResponse(w)
		return
	}

	h.record(r, "active")

	// 5. Build the introspection response
	response := authsdk.IntrospectionResponse{
		Active:    true,
		Scope:     strings.Join(claims.Scopes, " "),
		ClientID:  claims.ClientID,
		TokenType: "Bearer",
		Sub:       claims.Subject,
		Aud:       claims.Audience,
		Iss:       claims.Issuer,
		Jti:       claims.ID,
	}

	// Extract timestamps
	if claims.ExpiresAt != nil {
		response.Exp = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt != nil {
		response.Iat = claims.IssuedAt.Unix()
	}
	if claims.NotBefore != nil {
		response.Nbf = claims.NotBefore.Unix()
	}

	// 6. Return the response with no-cache headers
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}

// record writes an audit event attributed to the authenticated caller, not
// the subject of the introspected token.
func (h *IntrospectHandler) record(r *http.Request, detail string) {
	if h.Audit == nil {
		return
	}
	caller := httpx.ClientIDFromContext(r.Context())
	h.Audit.Record(r.Context(), caller, domain.AuditActionIntrospect, domain.AuditOutcomeSuccess, detail)
}

// writeInactiveResponse returns the minimal RFC7662 response for inactive tokens.
func writeInactiveResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)

	// Per RFC7662: "If the token is not active, does not exist on this server,
	// or the protected resource is not allowed to introspect this particular token,
	// then the authorization server MUST return an introspection response with
	// the 'active' field set to 'false'"
	_, _ = w.Write([]byte(`{"active":false}`))
}
