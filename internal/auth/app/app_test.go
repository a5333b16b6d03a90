package app

import (
	"testing"
	"time"

	"github.com/flightbay/flightbay/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func validTestConfig() Config {
	return Config{
		SigningSecret: "0123456789abcdef0123456789abcdef",
		Issuer:        "flightbay-auth",
		Audience:      []string{"flightbay-api"},
		AccessTTL:     time.Hour,
		Env:           "test",
		LogLevel:      "error",
		LogFormat:     "text",
	}
}

// New must refuse to start on a config that would issue broken or forgeable
// tokens, rather than surfacing the problem per-request at runtime.
func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero token lifetime",
			mutate:  func(c *Config) { c.AccessTTL = 0 },
			wantErr: "AUTH_TOKEN_TTL must be positive",
		},
		{
			name:    "negative token lifetime",
			mutate:  func(c *Config) { c.AccessTTL = -time.Minute },
			wantErr: "AUTH_TOKEN_TTL must be positive",
		},
		{
			name:    "missing signing secret",
			mutate:  func(c *Config) { c.SigningSecret = "" },
			wantErr: "AUTH_SIGNING_SECRET is required",
		},
		{
			name:    "short signing secret",
			mutate:  func(c *Config) { c.SigningSecret = "too-short" },
			wantErr: "AUTH_SIGNING_SECRET must be at least",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)

			_, err := New(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadConfigTokenTTLDefault(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL", "")

	cfg := LoadConfig()
	require.Equal(t, jwtx.DefaultAccessTokenTTL, cfg.AccessTTL)
}
