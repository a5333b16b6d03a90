package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/flightbay/flightbay/pkg/jwtx"
)

type Config struct {
	SigningSecret string // Required: HMAC-SHA256 signing secret, min 32 bytes

	Issuer               string        // Issuer claim for tokens (default: flightbay-auth)
	Audience             []string      // Audience claim for tokens (default: flightbay-api)
	AccessTTL            time.Duration // Access token lifetime (default: 1h)
	ClockLeeway          time.Duration // Validation leeway for exp/nbf (default: 0)
	ClientsFile          string        // Path to the YAML client registry (default: ./clients.yaml)
	BaseURL              string        // Public base URL for the metadata document (default: http://localhost:8080)
	AuditDBFile          string        // Path to the SQLite audit database (default: ./audit.db)
	AuditRetain          time.Duration // Audit event retention window (default: 30 days)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		SigningSecret:        os.Getenv("AUTH_SIGNING_SECRET"),
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "flightbay-auth"),
		Audience:             parseCSV(getEnvOrDefault("AUTH_AUDIENCE", "flightbay-api")),
		AccessTTL:            getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		ClockLeeway:          getEnvDurationOrDefault("AUTH_CLOCK_SKEW_LEEWAY", 0),
		ClientsFile:          getEnvOrDefault("AUTH_CLIENTS_FILE", "clients.yaml"),
		BaseURL:              strings.TrimSuffix(getEnvOrDefault("AUTH_BASE_URL", "http://localhost:8080"), "/"),
		AuditDBFile:          getEnvOrDefault("AUTH_AUDIT_DATABASE_FILE", "audit.db"),
		AuditRetain:          getEnvDurationOrDefault("AUTH_AUDIT_RETENTION", 30*24*time.Hour),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Parse as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Parse as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
