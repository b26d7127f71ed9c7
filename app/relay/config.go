package relay

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"

	"github.com/dmitrymomot/mailrelay/core/email"
	"github.com/dmitrymomot/mailrelay/core/server"
	"github.com/dmitrymomot/mailrelay/integration/email/smtp"
	"github.com/dmitrymomot/mailrelay/pkg/clientip"
)

// ErrInvalidConfig is returned by New when the configuration cannot start a relay.
var ErrInvalidConfig = errors.New("invalid relay configuration")

// Email drivers.
const (
	DriverSMTP = "smtp"
	DriverDev  = "dev"
)

// Config is the complete relay configuration, loaded once at startup with
// config.Load and read-only afterwards.
type Config struct {
	SMTP   smtp.Config
	Server server.Config

	AllowedIP      string `env:"ALLOWED_IP" envDefault:"127.0.0.1"`
	AppName        string `env:"APP_NAME" envDefault:"mailrelay"`
	Env            string `env:"APP_ENV" envDefault:"production"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	EmailDriver    string `env:"EMAIL_DRIVER" envDefault:"smtp"`
	EmailDevDir    string `env:"EMAIL_DEV_DIR" envDefault:"./dev_emails"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate checks the settings New depends on. SMTP details are validated
// again by the SMTP client itself.
func (c Config) Validate() error {
	if err := email.ValidateAddress(c.SMTP.SenderEmail); err != nil {
		return fmt.Errorf("%w: FROM_EMAIL %q is not a valid address: %w", ErrInvalidConfig, c.SMTP.SenderEmail, err)
	}
	if _, err := c.AllowedAddr(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.EmailDriver {
	case DriverSMTP, DriverDev:
	default:
		return fmt.Errorf("%w: EMAIL_DRIVER must be smtp or dev, got %q", ErrInvalidConfig, c.EmailDriver)
	}
	return nil
}

// AllowedAddr parses ALLOWED_IP.
func (c Config) AllowedAddr() (netip.Addr, error) {
	ip, err := clientip.Parse(c.AllowedIP)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: ALLOWED_IP %q: %w", ErrInvalidConfig, c.AllowedIP, err)
	}
	return ip, nil
}

// LogValue implements slog.LogValuer. Credentials stay redacted through
// smtp.Config.LogValue.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("app", c.AppName),
		slog.String("env", c.Env),
		slog.Any("server", c.Server),
		slog.String("allowed_ip", c.AllowedIP),
		slog.String("email_driver", c.EmailDriver),
		slog.Bool("metrics", c.MetricsEnabled),
		slog.Any("smtp", c.SMTP),
	)
}
