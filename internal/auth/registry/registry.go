package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/flightbay/flightbay/internal/auth/domain"
	"github.com/flightbay/flightbay/pkg/cryptox"
	"gopkg.in/yaml.v3"
)

// ErrUnknownClient is returned by Lookup when no client with the given id is
// registered. Callers must not expose whether the id or the secret was wrong.
var ErrUnknownClient = errors.New("registry: unknown client")

// Registry holds the set of OAuth2 clients loaded at startup. It is immutable
// after Load returns and therefore safe for concurrent use without locking.
// Changing the client set requires a restart.
type Registry struct {
	clients map[string]domain.Client
	scopes  []string // sorted union of all client allowances
}

// clientsFile is the on-disk YAML schema.
//
//	clients:
//	  - id: demo-client
//	    name: Demo flight worker
//	    secret: demo-secret
//	    scopes: [flight:read, booking:manage]
//
// A pre-hashed secret can be supplied as secret_hash instead of secret.
type clientsFile struct {
	Clients []clientEntry `yaml:"clients"`
}

type clientEntry struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Secret     string   `yaml:"secret"`
	SecretHash string   `yaml:"secret_hash"`
	Scopes     []string `yaml:"scopes"`
}

// LoadFile reads and parses the client registry from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses the client registry from r. Plaintext secrets are hashed with
// argon2id at load time so the process never holds them beyond startup.
func Load(r io.Reader) (*Registry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("registry: read: %w", err)
	}

	var file clientsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("registry: parse: %w", err)
	}

	if len(file.Clients) == 0 {
		return nil, errors.New("registry: no clients defined")
	}

	clients := make(map[string]domain.Client, len(file.Clients))
	scopeSet := make(map[string]struct{})

	for i, entry := range file.Clients {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("registry: client %d: missing id", i)
		}
		if _, dup := clients[id]; dup {
			return nil, fmt.Errorf("registry: duplicate client id %q", id)
		}

		hash, err := resolveSecret(entry)
		if err != nil {
			return nil, fmt.Errorf("registry: client %q: %w", id, err)
		}

		scopes := dedupeScopes(entry.Scopes)
		if len(scopes) == 0 {
			return nil, fmt.Errorf("registry: client %q: no scopes", id)
		}
		for _, s := range scopes {
			scopeSet[s] = struct{}{}
		}

		name := entry.Name
		if name == "" {
			name = id
		}

		clients[id] = domain.Client{
			ID:         id,
			Name:       name,
			SecretHash: hash,
			Scopes:     scopes,
		}
	}

	scopes := make([]string, 0, len(scopeSet))
	for s := range scopeSet {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)

	return &Registry{clients: clients, scopes: scopes}, nil
}

func resolveSecret(entry clientEntry) (string, error) {
	switch {
	case entry.Secret != "" && entry.SecretHash != "":
		return "", errors.New("both secret and secret_hash set")
	case entry.SecretHash != "":
		if !cryptox.IsHashed(entry.SecretHash) {
			return "", errors.New("secret_hash is not an argon2id hash")
		}
		return entry.SecretHash, nil
	case entry.Secret != "":
		return cryptox.HashSecret(entry.Secret)
	default:
		return "", errors.New("missing secret")
	}
}

func dedupeScopes(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Lookup returns the client with the given id.
func (r *Registry) Lookup(id string) (domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return domain.Client{}, ErrUnknownClient
	}
	return c, nil
}

// Len returns the number of registered clients.
func (r *Registry) Len() int { return len(r.clients) }

// Scopes returns the sorted union of every client's allowance. Used by the
// metadata endpoint to advertise scopes_supported.
func (r *Registry) Scopes() []string {
	out := make([]string, len(r.scopes))
	copy(out, r.scopes)
	return out
}
