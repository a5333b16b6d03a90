package http

import (
	"net/http"

	"github.com/flightbay/flightbay/internal/auth/registry"
	"github.com/flightbay/flightbay/pkg/authsdk"
	"github.com/flightbay/flightbay/pkg/httpx"
)

// MetadataHandler godoc
//
//	@Summary		Authorization Server Metadata
//	@Description	Returns the RFC 8414 authorization server metadata document. Scopes are the union of all registered client allowances.
//	@Tags			OAuth2
//	@Produce		json
//	@Success		200	{object}	authsdk.MetadataResponse	"server metadata"
//	@Router			/.well-known/oauth-authorization-server [get].
func MetadataHandler(issuer, baseURL string, reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := authsdk.MetadataResponse{
			Issuer:                issuer,
			TokenEndpoint:         baseURL + "/v1/oauth2/token",
			IntrospectionEndpoint: baseURL + "/v1/oauth2/introspect",
			GrantTypesSupported:   []string{"client_credentials"},
			// Credentials travel in the form body, not a Basic auth header
			TokenEndpointAuthMethodsSupported: []string{"client_secret_post"},
			ScopesSupported:                   reg.Scopes(),
			// client_credentials has no authorization endpoint, RFC 8414
			// requires the field so it is present but empty
			ResponseTypesSupported: []string{},
		}

		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
