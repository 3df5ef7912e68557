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

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
env: "local"
mysql:
  user: "user"
  name: "envanter"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, DriverMySQL, cfg.Storage.Driver)
	assert.Equal(t, "localhost:4001", cfg.Address)
	assert.Equal(t, int64(10<<20), cfg.Import.MaxUploadBytes)
	assert.Equal(t, 60*time.Second, cfg.Import.Timeout)
	assert.Equal(t, PolicyFirstWins, cfg.Import.DuplicatePolicy)
	assert.Equal(t, 20, cfg.Import.ErrorLimit)
	assert.Equal(t, 3306, cfg.MySQL.Port)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_FileValuesKept(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: "mongo"
mongo:
  uri: "mongodb://db:27017"
  database: "inv"
import:
  duplicate_policy: "reject_all"
  max_upload_bytes: 1024
cors:
  allowed_origins: ["http://a", "http://b"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "inv", cfg.Mongo.Database)
	assert.Equal(t, PolicyRejectAll, cfg.Import.DuplicatePolicy)
	assert.Equal(t, int64(1024), cfg.Import.MaxUploadBytes)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
mysql:
  user: "user"
  name: "envanter"
`)
	t.Setenv("IMPORT_DUPLICATE_POLICY", PolicyRejectAll)
	t.Setenv("DB_HOST", "mysql-8.0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, PolicyRejectAll, cfg.Import.DuplicatePolicy)
	assert.Equal(t, "mysql-8.0", cfg.MySQL.Host)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "storage:\n  driver: \"sqlite\"\n"},
		{"mysql without user", "storage:\n  driver: \"mysql\"\nmysql:\n  name: \"envanter\"\n"},
		{"unknown policy", "mysql:\n  user: \"u\"\n  name: \"n\"\nimport:\n  duplicate_policy: \"last_wins\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
