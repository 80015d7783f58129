package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViperReadsGroupedFile(t *testing.T) {
	dir := t.TempDir()
	body := `{
  "app": {"port": "9090", "jwt_secret": "file-secret", "allowed_origins": ["https://a.example", "https://b.example"]},
  "database": {"driver": "SQLite", "path": "/tmp/net.db"},
  "log": {"level": "debug"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0o644))

	v, err := newViper(dir)
	require.NoError(t, err)
	c := fromViper(v)

	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "file-secret", c.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "/tmp/net.db", c.DBPath)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"app": {"port": "9090"}}`), 0o644))
	t.Setenv("APP_PORT", "7070")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://x.example, https://y.example")
	t.Setenv("SESSION_TTL_HOURS", "12")

	v, err := newViper(dir)
	require.NoError(t, err)
	c := fromViper(v)

	assert.Equal(t, "7070", c.AppPort)
	assert.Equal(t, []string{"https://x.example", "https://y.example"}, c.AllowedOrigins)
	assert.Equal(t, 12, c.SessionTTLHours)
}

func TestDefaultsWithoutFile(t *testing.T) {
	v, err := newViper(t.TempDir())
	require.NoError(t, err)
	c := fromViper(v)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, "3306", c.DBPort)
	assert.Equal(t, "session", c.CookieName)
	assert.Equal(t, 72, c.SessionTTLHours)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Empty(t, c.RedisHost)
}

func TestInvalidFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"app":`), 0o644))

	_, err := newViper(dir)
	assert.Error(t, err)
}

func TestPostgresDefaultPort(t *testing.T) {
	c := AppConfig{DBDriver: "postgres"}
	applyDefaults(&c)
	assert.Equal(t, "5432", c.DBPort)
}

func TestDialectorForUnknownDriver(t *testing.T) {
	_, err := dialectorFor(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestOpenDatabaseSqlite(t *testing.T) {
	db, err := OpenDatabase(AppConfig{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "t.db"), LogLevel: "silent"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	_ = sqlDB.Close()
}
