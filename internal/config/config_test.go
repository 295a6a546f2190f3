package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16-chars"

// clearEnv blanks every variable Load consults so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TODO_ADDRESS", "TODO_LOG_LEVEL", "TODO_DB_DRIVER", "TODO_DB_DSN", "DATABASE_URL",
		"TODO_JWT_SECRET", "JWT_SECRET", "TODO_TOKEN_TTL", "TODO_BCRYPT_COST",
		"TODO_STRICT_OWNERSHIP", "TODO_DEV_MODE", "TODO_CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "valid config",
			yaml:    "jwt_secret: " + testSecret,
			wantErr: "",
		},
		{
			name:    "missing secret fails validation",
			yaml:    "log_level: debug",
			wantErr: "jwt_secret is required",
		},
		{
			name:    "short secret fails validation",
			yaml:    "jwt_secret: short",
			wantErr: "at least 16 characters",
		},
		{
			name:    "unknown driver fails validation",
			yaml:    "jwt_secret: " + testSecret + "\ndatabase:\n  driver: mysql",
			wantErr: "database.driver",
		},
		{
			name:    "bad log level fails validation",
			yaml:    "jwt_secret: " + testSecret + "\nlog_level: loud",
			wantErr: "log_level",
		},
		{
			name:    "unknown key is rejected",
			yaml:    "jwt_secret: " + testSecret + "\nport: 10000",
			wantErr: "failed to unmarshal config file",
		},
		{
			name:    "invalid yaml syntax",
			yaml:    `invalid: [yaml: content`,
			wantErr: "failed to unmarshal config file",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearEnv(t)

			cfg, err := Load(writeTestConfig(t, test.yaml))

			if test.wantErr != "" {
				require.ErrorContains(t, err, test.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestLoad_FileValuesOverrideDefaults(t *testing.T) {
	clearEnv(t)

	path := writeTestConfig(t, `
address: "127.0.0.1:8080"
jwt_secret: `+testSecret+`
token_ttl: 1h
strict_ownership: true
database:
  dsn: /tmp/todos.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Address)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.StrictOwnership)
	assert.Equal(t, "/tmp/todos.db", cfg.Database.DSN)
	// untouched keys keep their defaults
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_JWT_SECRET", "env-secret-at-least-16-chars")
	t.Setenv("TODO_ADDRESS", ":9999")
	t.Setenv("TODO_STRICT_OWNERSHIP", "true")
	t.Setenv("TODO_CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(writeTestConfig(t, "jwt_secret: "+testSecret+"\naddress: ':8080'"))
	require.NoError(t, err)

	assert.Equal(t, "env-secret-at-least-16-chars", cfg.JWTSecret)
	assert.Equal(t, ":9999", cfg.Address)
	assert.True(t, cfg.StrictOwnership)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_NoFileUsesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost/todos")
	t.Setenv("TODO_DB_DRIVER", "postgres")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/todos", cfg.Database.DSN)
}

func TestLoad_NoSecretAnywhere(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.ErrorContains(t, err, "jwt_secret is required")
	assert.Nil(t, cfg)
}

func TestLoad_BadEnvValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_JWT_SECRET", testSecret)
	t.Setenv("TODO_TOKEN_TTL", "forever")

	_, err := Load("")
	require.ErrorContains(t, err, "TODO_TOKEN_TTL")
}

func TestLoad_FileNotFound(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("/nonexistent/path/config.yaml")
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, cfg)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
