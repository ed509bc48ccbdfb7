package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/broker/core/config"
)

// Each test uses its own config type: loaded values are cached per type, so
// sharing a struct across tests would leak state between them.

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		type defaultsConfig struct {
			Capacity int           `env:"TEST_DEFAULTS_CAPACITY" envDefault:"1000"`
			Timeout  time.Duration `env:"TEST_DEFAULTS_TIMEOUT" envDefault:"30s"`
		}

		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 1000, cfg.Capacity)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("reads environment variables", func(t *testing.T) {
		type envConfig struct {
			Capacity int `env:"TEST_ENV_CAPACITY" envDefault:"1000"`
		}

		t.Setenv("TEST_ENV_CAPACITY", "42")

		var cfg envConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 42, cfg.Capacity)
	})

	t.Run("caches loaded values per type", func(t *testing.T) {
		type cachedConfig struct {
			Capacity int `env:"TEST_CACHED_CAPACITY" envDefault:"10"`
		}

		t.Setenv("TEST_CACHED_CAPACITY", "7")

		var first cachedConfig
		require.NoError(t, config.Load(&first))
		require.Equal(t, 7, first.Capacity)

		// Changing the environment after the first load has no effect.
		t.Setenv("TEST_CACHED_CAPACITY", "99")

		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, 7, second.Capacity)
	})

	t.Run("fails on missing required variable", func(t *testing.T) {
		type requiredConfig struct {
			Token string `env:"TEST_REQUIRED_TOKEN,required"`
		}

		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requiredConfig")
	})

	t.Run("rejects nil config", func(t *testing.T) {
		var cfg *struct{}
		require.ErrorIs(t, config.Load(cfg), config.ErrNilConfig)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns value on success", func(t *testing.T) {
		type mustConfig struct {
			Capacity int `env:"TEST_MUST_CAPACITY" envDefault:"5"`
		}

		var cfg mustConfig
		require.NotPanics(t, func() { config.MustLoad(&cfg) })
		assert.Equal(t, 5, cfg.Capacity)
	})

	t.Run("panics on failure", func(t *testing.T) {
		type mustFailConfig struct {
			Token string `env:"TEST_MUST_FAIL_TOKEN,required"`
		}

		var cfg mustFailConfig
		require.Panics(t, func() { config.MustLoad(&cfg) })
	})
}
