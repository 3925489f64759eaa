package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 720*time.Hour, cfg.JWT.Expire)
	assert.Equal(t, int64(5), cfg.Uploads.MaxSizeMB)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.MailEnabled())
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestSplitEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestMailEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("FROM_EMAIL", "noreply@example.com")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MailEnabled())
}
