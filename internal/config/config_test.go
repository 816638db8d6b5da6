package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APPROVAL_TOKEN_TTL", "")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("APPROVAL_TOKEN_SECRET", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.ApprovalTokenTTL)
	assert.Equal(t, "jwt-secret", cfg.ApprovalSecret)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APPROVAL_TOKEN_TTL", "30m")
	t.Setenv("OUTBOX_POLL_INTERVAL", "not-a-duration")
	t.Setenv("CONNECT_RETRIES", "2")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.ApprovalTokenTTL)
	assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 2, cfg.ConnectRetries)
}
