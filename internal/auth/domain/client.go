package domain

// Client is a registered OAuth2 client loaded from the registry file at
// startup. Entries are immutable for the lifetime of the process.
type Client struct {
	ID         string
	Name       string
	SecretHash string // argon2id PHC string, never plaintext
	Scopes     []string
}

// AllowsScope reports whether the client's allowance contains the scope.
func (c Client) AllowsScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
