package domain

import "time"

// Token represents what the token endpoint returns for the client_credentials
// grant. There is no refresh token, clients re-authenticate with their
// credentials when the access token expires.
type Token struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type,omitempty"` // always "Bearer"
	ExpiresIn   time.Duration `json:"expires_in"`           // seconds until expiry
	Scope       string        `json:"scope,omitempty"`      // space-delimited
}
