package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"IDENTITY_BACKEND", "MOCK_DELAY", "AUTH_TIMEOUT", "SESSION_STORE", "SESSION_TOKEN_KEY", "SESSION_REVALIDATE", "CONTENT_STORE"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "mock", cfg.IdentityBackend)
	assert.Equal(t, time.Second, cfg.MockDelay)
	assert.Zero(t, cfg.AuthTimeout)
	assert.Equal(t, "file", cfg.SessionStore)
	assert.Equal(t, "token", cfg.SessionTokenKey)
	assert.True(t, cfg.SessionRevalidate)
	assert.Equal(t, "memory", cfg.ContentStore)
	assert.Equal(t, 720*time.Hour, cfg.JWT.TTL)
	assert.Contains(t, cfg.SessionFile, "cms-admin")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("IDENTITY_BACKEND", "LOCAL")
	t.Setenv("MOCK_DELAY", "250")
	t.Setenv("AUTH_TIMEOUT", "5s")
	t.Setenv("SESSION_REVALIDATE", "false")
	t.Setenv("CORS_ORIGINS", "http://a.local, ,http://b.local")

	cfg := Load()
	assert.Equal(t, "local", cfg.IdentityBackend)
	assert.Equal(t, 250*time.Millisecond, cfg.MockDelay)
	assert.Equal(t, 5*time.Second, cfg.AuthTimeout)
	assert.False(t, cfg.SessionRevalidate)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSOrigins)
}

func TestGetEnvDuration_Invalid(t *testing.T) {
	t.Setenv("CMS_DURATION", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("CMS_DURATION", time.Minute))
}
