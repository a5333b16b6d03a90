package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Introspect asks the server whether a token is active per RFC 7662.
// The introspection endpoint itself requires a valid bearer token, so this is
// a Session method rather than an SDKClient one.
func (s *Session) Introspect(ctx context.Context, token string) (*IntrospectionResponse, error) {
	data := url.Values{
		"token": {token},
	}

	resp, err := s.doAuthRequest(
		ctx,
		http.MethodPost,
		"/v1/oauth2/introspect",
		strings.NewReader(data.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return nil, err
	}

	var introspection IntrospectionResponse
	if err := decodeJSON(resp, &introspection, http.StatusOK); err != nil {
		return nil, err
	}

	return &introspection, nil
}
