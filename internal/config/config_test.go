package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/briefboard_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
}

func TestLoad(t *testing.T) {
	t.Run("defaults apply", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, ":8080", cfg.Addr())
		assert.Equal(t, "admin", cfg.BootstrapAdminHandle)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 20, cfg.AssistQuota)
		assert.Equal(t, time.Hour, cfg.AssistQuotaWindow())
		assert.Equal(t, 30*time.Second, cfg.AssistTimeout())
	})

	t.Run("missing DATABASE_URL fails", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("REDIS_URL", "redis://localhost:6379")

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("overrides are honored", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PORT", "9090")
		t.Setenv("BOOTSTRAP_ADMIN_HANDLE", "root")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Addr())
		assert.Equal(t, "root", cfg.BootstrapAdminHandle)
	})
}

func TestValidate(t *testing.T) {
	t.Run("development accepts an empty secret", func(t *testing.T) {
		cfg := &Config{BootstrapAdminHandle: "admin"}
		assert.NoError(t, cfg.Validate(false))
	})

	t.Run("production rejects short secrets", func(t *testing.T) {
		cfg := &Config{BootstrapAdminHandle: "admin", SessionSecret: "short"}
		assert.Error(t, cfg.Validate(true))
	})

	t.Run("production rejects known weak secrets", func(t *testing.T) {
		cfg := &Config{
			BootstrapAdminHandle: "admin",
			SessionSecret:        "change-me",
		}
		assert.Error(t, cfg.Validate(true))
	})

	t.Run("production accepts a strong secret", func(t *testing.T) {
		cfg := &Config{
			BootstrapAdminHandle: "admin",
			SessionSecret:        "a-sufficiently-long-random-session-secret",
			RedisURL:             "rediss://example:6379",
		}
		assert.NoError(t, cfg.Validate(true))
	})

	t.Run("empty bootstrap handle is rejected", func(t *testing.T) {
		cfg := &Config{}
		assert.Error(t, cfg.Validate(false))
	})
}
