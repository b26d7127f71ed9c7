package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type smtpSettings struct {
	Host     string        `env:"CFG_TEST_SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port     int           `env:"CFG_TEST_SMTP_PORT" envDefault:"587"`
	Username string        `env:"CFG_TEST_SMTP_USERNAME,required,notEmpty"`
	Timeout  time.Duration `env:"CFG_TEST_SMTP_TIMEOUT" envDefault:"30s"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults and required values", func(t *testing.T) {
		t.Cleanup(reset)
		t.Setenv("CFG_TEST_SMTP_USERNAME", "mailer@example.com")

		var cfg smtpSettings
		require.NoError(t, Load(&cfg))

		assert.Equal(t, "smtp.gmail.com", cfg.Host)
		assert.Equal(t, 587, cfg.Port)
		assert.Equal(t, "mailer@example.com", cfg.Username)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("overrides defaults", func(t *testing.T) {
		t.Cleanup(reset)
		t.Setenv("CFG_TEST_SMTP_USERNAME", "mailer@example.com")
		t.Setenv("CFG_TEST_SMTP_HOST", "127.0.0.1")
		t.Setenv("CFG_TEST_SMTP_PORT", "2525")

		var cfg smtpSettings
		require.NoError(t, Load(&cfg))

		assert.Equal(t, "127.0.0.1", cfg.Host)
		assert.Equal(t, 2525, cfg.Port)
	})

	t.Run("missing required variable is named", func(t *testing.T) {
		t.Cleanup(reset)
		t.Setenv("CFG_TEST_SMTP_USERNAME", "")

		var cfg smtpSettings
		err := Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParsing)
		assert.Contains(t, err.Error(), "CFG_TEST_SMTP_USERNAME")
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Cleanup(reset)
		t.Setenv("CFG_TEST_SMTP_USERNAME", "mailer@example.com")
		t.Setenv("CFG_TEST_SMTP_PORT", "not-a-port")

		var cfg smtpSettings
		err := Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParsing)
	})

	t.Run("nil target", func(t *testing.T) {
		err := Load[smtpSettings](nil)
		assert.ErrorIs(t, err, ErrParsing)
	})
}

func TestLoad_Caches(t *testing.T) {
	t.Cleanup(reset)
	t.Setenv("CFG_TEST_SMTP_USERNAME", "first@example.com")

	var first smtpSettings
	require.NoError(t, Load(&first))

	t.Setenv("CFG_TEST_SMTP_USERNAME", "second@example.com")

	var second smtpSettings
	require.NoError(t, Load(&second))

	assert.Equal(t, first, second)
	assert.Equal(t, "first@example.com", second.Username)
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on missing variable", func(t *testing.T) {
		t.Cleanup(reset)
		t.Setenv("CFG_TEST_SMTP_USERNAME", "")

		assert.Panics(t, func() {
			var cfg smtpSettings
			MustLoad(&cfg)
		})
	})

	t.Run("loads", func(t *testing.T) {
		t.Cleanup(reset)
		t.Setenv("CFG_TEST_SMTP_USERNAME", "mailer@example.com")

		var cfg smtpSettings
		assert.NotPanics(t, func() { MustLoad(&cfg) })
		assert.Equal(t, "mailer@example.com", cfg.Username)
	})
}
