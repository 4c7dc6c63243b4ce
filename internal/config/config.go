package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cms-admin/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	HTTPAddr    string
	CORSOrigins []string

	// Identity
	IdentityBackend string
	MockDelay       time.Duration
	AuthTimeout     time.Duration

	// Session persistence
	SessionStore      string
	SessionTokenKey   string
	SessionFile       string
	SessionSQLitePath string
	SessionRevalidate bool
	RedisAddr         string
	RedisPass         string

	// Content storage
	ContentStore string
	DatabaseURL  string

	// JWT (local backend)
	JWT jwt.Config

	// Seeded admin (local backend)
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	OTelEnabled bool
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	dir := configDir()

	return AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8000"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", nil),

		IdentityBackend: strings.ToLower(getEnv("IDENTITY_BACKEND", "mock")),
		MockDelay:       getEnvDuration("MOCK_DELAY", time.Second),
		AuthTimeout:     getEnvDuration("AUTH_TIMEOUT", 0),

		SessionStore:      strings.ToLower(getEnv("SESSION_STORE", "file")),
		SessionTokenKey:   getEnv("SESSION_TOKEN_KEY", "token"),
		SessionFile:       getEnv("SESSION_FILE", filepath.Join(dir, "session.json")),
		SessionSQLitePath: getEnv("SESSION_SQLITE_PATH", filepath.Join(dir, "session.db")),
		SessionRevalidate: getEnvBool("SESSION_REVALIDATE", true),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         getEnv("REDIS_PASS", ""),

		ContentStore: strings.ToLower(getEnv("CONTENT_STORE", "memory")),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		JWT: jwt.Config{
			PrivPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
			PubPath:  getEnv("JWT_PUBLIC_KEY_PATH", ""),
			Issuer:   "cms-admin",
			Audience: "cms-console",
			TTL:      getEnvDuration("JWT_TTL", 720*time.Hour),
			KID:      "cms-admin-key",
		},

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		OTelEnabled: getEnvBool("OTEL_ENABLED", false),
	}
}

// --- Helper functions ---

func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "cms-admin")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getEnvDuration accepts Go durations ("1s", "250ms") and bare milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
