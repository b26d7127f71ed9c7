package smtp

import (
	"log/slog"
	"time"
)

// TLS modes.
const (
	TLSModeSTARTTLS = "starttls" // upgrade a plain connection, port 587
	TLSModeTLS      = "tls"      // implicit TLS, port 465
	TLSModePlain    = "plain"    // no encryption, local stubs only
)

// Default timeouts applied when the corresponding Config field is zero.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultDialTimeout = 10 * time.Second
	DefaultTLSTimeout  = 10 * time.Second
)

// Config holds SMTP server configuration.
type Config struct {
	Host        string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port        int           `env:"SMTP_PORT" envDefault:"587"`
	Username    string        `env:"SMTP_USERNAME,required,notEmpty"`
	Password    string        `env:"SMTP_PASSWORD,required,notEmpty"`
	TLSMode     string        `env:"SMTP_TLS_MODE" envDefault:"starttls"` // starttls, tls, or plain
	SenderEmail string        `env:"FROM_EMAIL,required,notEmpty"`
	Timeout     time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`      // whole dialogue
	DialTimeout time.Duration `env:"SMTP_DIAL_TIMEOUT" envDefault:"10s"` // TCP connect
	TLSTimeout  time.Duration `env:"SMTP_TLS_TIMEOUT" envDefault:"10s"`  // TLS handshake
}

// LogValue implements slog.LogValuer. The password is never logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", c.Host),
		slog.Int("port", c.Port),
		slog.String("username", c.Username),
		slog.String("password", "[REDACTED]"),
		slog.String("tls_mode", c.TLSMode),
		slog.String("sender", c.SenderEmail),
		slog.Duration("timeout", c.Timeout),
	)
}

func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.TLSTimeout == 0 {
		c.TLSTimeout = DefaultTLSTimeout
	}
	return c
}
