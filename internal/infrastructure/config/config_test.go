package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no IMS_ variables set
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"IMS_APP_ENV", "IMS_APP_NAME", "IMS_APP_PORT",
		"IMS_DATABASE_HOST", "IMS_DATABASE_PORT", "IMS_DATABASE_PASSWORD", "IMS_DATABASE_SSLMODE",
		"IMS_DATABASE_MAX_OPEN_CONNS", "IMS_DATABASE_MAX_IDLE_CONNS",
		"IMS_JWT_SECRET", "IMS_MAIL_ENABLED", "IMS_MAIL_HOST", "IMS_MAIL_FROM",
		"IMS_ALERT_ASYNC", "IMS_ALERT_POOL_SIZE", "IMS_SCHEDULER_DIGEST_ENABLED",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		isolate(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ims-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "ims", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
		assert.False(t, cfg.Scheduler.DigestEnabled)
		assert.Equal(t, "0 8 * * *", cfg.Scheduler.DigestSchedule)
		assert.False(t, cfg.Alert.Async)
		assert.Equal(t, 16, cfg.Alert.PoolSize)
		assert.Equal(t, 30*time.Second, cfg.Alert.Timeout)
		assert.False(t, cfg.Telemetry.Enabled)
	})

	t.Run("loads values from environment variables with IMS prefix", func(t *testing.T) {
		isolate(t)
		t.Setenv("IMS_APP_NAME", "test-app")
		t.Setenv("IMS_APP_PORT", "9000")
		t.Setenv("IMS_DATABASE_HOST", "testdb.local")
		t.Setenv("IMS_DATABASE_PORT", "5433")
		t.Setenv("IMS_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("IMS_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("IMS_ALERT_ASYNC", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Alert.Async)
	})

	t.Run("reads config.toml and .env", func(t *testing.T) {
		isolate(t)
		dir, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[app]
port = "7000"

[scheduler]
digest_enabled = true
digest_schedule = "30 6 * * 1-5"
`), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("IMS_APP_PORT=7100\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("IMS_APP_PORT") })

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "7100", cfg.App.Port)
		assert.True(t, cfg.Scheduler.DigestEnabled)
		assert.Equal(t, "30 6 * * 1-5", cfg.Scheduler.DigestSchedule)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		isolate(t)
		t.Setenv("IMS_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("IMS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("requires smtp settings when mail is enabled", func(t *testing.T) {
		isolate(t)
		t.Setenv("IMS_MAIL_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.host")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		isolate(t)
		t.Setenv("IMS_APP_ENV", "production")
		t.Setenv("IMS_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("IMS_DATABASE_PASSWORD", "secure-password")
		t.Setenv("IMS_DATABASE_SSLMODE", "require")
	}

	tests := []struct {
		name    string
		mutate  func(t *testing.T)
		wantErr string
	}{
		{"requires jwt.secret", func(t *testing.T) { os.Unsetenv("IMS_JWT_SECRET") }, "jwt.secret is required in production"},
		{"requires long jwt.secret", func(t *testing.T) { t.Setenv("IMS_JWT_SECRET", "short-secret") }, "at least 32 characters"},
		{"requires database.password", func(t *testing.T) { os.Unsetenv("IMS_DATABASE_PASSWORD") }, "database.password is required"},
		{"requires ssl", func(t *testing.T) { t.Setenv("IMS_DATABASE_SSLMODE", "disable") }, "sslmode cannot be 'disable'"},
		{"accepts valid config", func(t *testing.T) {}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase(t)
			tt.mutate(t)

			cfg, err := Load()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.True(t, cfg.App.IsProduction())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass@word#123",
		DBName:   "ims",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "pass%40word%23123")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}

func TestLoad_DecodesDurationsAndLists(t *testing.T) {
	isolate(t)
	t.Setenv("IMS_ALERT_TIMEOUT", "45s")
	t.Setenv("IMS_HTTP_CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Alert.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, 30*time.Minute, cfg.JWT.PasswordResetExpiration)
}
