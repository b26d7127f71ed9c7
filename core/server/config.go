package server

import (
	"fmt"
	"log/slog"
	"net"
	"time"
)

// Config is the env-loaded part of the server settings. The relay binds to
// loopback unless SERVER_ADDR says otherwise.
type Config struct {
	Addr string `env:"SERVER_ADDR" envDefault:"127.0.0.1:3000"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"45s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxHeaderBytes  int           `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"`
}

// DefaultConfig mirrors the envDefault tags for callers that skip env loading.
func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
	}
}

// Validate checks that Addr is a host:port pair. Zero durations and sizes
// fall back to the defaults in New.
func (c Config) Validate() error {
	if c.Addr == "" {
		return ErrMissingAddress
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidAddress, c.Addr, err)
	}
	return nil
}

// LogValue implements slog.LogValuer.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Addr),
		slog.Duration("read_timeout", c.ReadTimeout),
		slog.Duration("write_timeout", c.WriteTimeout),
		slog.Duration("shutdown_timeout", c.ShutdownTimeout),
	)
}

// NewFromConfig validates cfg and builds a Server from it.
// Options are applied after the config values and win over them.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var fromConfig []Option
	for _, set := range []struct {
		ok  bool
		opt Option
	}{
		{cfg.ReadTimeout > 0, WithReadTimeout(cfg.ReadTimeout)},
		{cfg.WriteTimeout > 0, WithWriteTimeout(cfg.WriteTimeout)},
		{cfg.IdleTimeout > 0, WithIdleTimeout(cfg.IdleTimeout)},
		{cfg.ShutdownTimeout > 0, WithShutdownTimeout(cfg.ShutdownTimeout)},
		{cfg.MaxHeaderBytes > 0, WithMaxHeaderBytes(cfg.MaxHeaderBytes)},
	} {
		if set.ok {
			fromConfig = append(fromConfig, set.opt)
		}
	}

	return New(cfg.Addr, append(fromConfig, opts...)...), nil
}
