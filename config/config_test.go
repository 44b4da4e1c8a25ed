package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "host=localhost dbname=repairs"
auth:
  jwt_secret: "secret"
  admin_emails: [" Boss@Shop.com "]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "auth_token", cfg.Auth.CookieName)
	assert.True(t, cfg.Auth.PublicSearch)
	assert.Equal(t, "memory", cfg.Auth.Revocation)
	assert.Equal(t, []string{"boss@shop.com"}, cfg.Auth.AdminEmails)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: sqlite
  dsn: "file::memory:"
auth:
  jwt_secret: "from-file"
  public_search: false
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Auth.PublicSearch)
}

func TestLoad_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "missing secret", body: "database:\n  dsn: x\n"},
		{name: "missing dsn", body: "auth:\n  jwt_secret: s\n"},
		{name: "unknown driver", body: "database:\n  driver: mysql\n  dsn: x\nauth:\n  jwt_secret: s\n"},
		{name: "redis without addr", body: "database:\n  dsn: x\nauth:\n  jwt_secret: s\n  revocation: redis\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			t.Setenv("DATABASE_URL", "")
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}
