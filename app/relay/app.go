package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/mailrelay/core/email"
	"github.com/dmitrymomot/mailrelay/core/handler"
	"github.com/dmitrymomot/mailrelay/core/health"
	"github.com/dmitrymomot/mailrelay/core/logger"
	"github.com/dmitrymomot/mailrelay/core/response"
	"github.com/dmitrymomot/mailrelay/core/server"
	"github.com/dmitrymomot/mailrelay/integration/email/smtp"
	"github.com/dmitrymomot/mailrelay/middleware"
	"github.com/dmitrymomot/mailrelay/pkg/metrics"
)

// App is the assembled relay: sender, HTTP handler and server.
type App struct {
	config   Config
	logger   *slog.Logger
	sender   email.Sender
	server   *server.Server
	handler  http.Handler
	smtpOpts []smtp.Option
}

// AppOption customizes New.
type AppOption func(*App) error

// New validates cfg and wires the relay. Nothing is bound until Run.
func New(cfg Config, opts ...AppOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{config: cfg}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = NewLogger(cfg)
	}

	if app.sender == nil {
		sender, err := app.newSender()
		if err != nil {
			return nil, err
		}
		app.sender = sender
	}
	app.sender = metrics.InstrumentSender(app.sender, cfg.SMTP.Host)

	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	h, err := app.routes()
	if err != nil {
		return nil, err
	}
	app.handler = h

	return app, nil
}

// NewLogger builds the process logger from cfg: text at debug in
// development, JSON at LOG_LEVEL otherwise. Records logged with a request
// context carry its request id.
func NewLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{logger.WithContextExtractors(middleware.RequestIDExtractor)}
	if cfg.IsDevelopment() {
		opts = append(opts, logger.WithDevelopment(cfg.AppName))
	} else {
		opts = append(opts, logger.WithProduction(cfg.AppName), logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(opts...)
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l *slog.Logger) AppOption {
	return func(app *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = l
		return nil
	}
}

// WithSender replaces the sender selected by EMAIL_DRIVER.
func WithSender(s email.Sender) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("sender cannot be nil")
		}
		app.sender = s
		return nil
	}
}

// WithServer replaces the server built from the configuration.
func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}

// WithSMTPOptions passes extra options to the SMTP client, e.g. a TLS root pool.
func WithSMTPOptions(opts ...smtp.Option) AppOption {
	return func(app *App) error {
		app.smtpOpts = append(app.smtpOpts, opts...)
		return nil
	}
}

func (a *App) newSender() (email.Sender, error) {
	switch a.config.EmailDriver {
	case DriverDev:
		a.logger.Warn("email driver is dev, messages are written to disk",
			logger.Component("relay"),
			slog.String("dir", a.config.EmailDevDir),
		)
		return email.NewDevSender(a.config.EmailDevDir, a.config.SMTP.SenderEmail), nil
	default:
		opts := append([]smtp.Option{smtp.WithLogger(a.logger)}, a.smtpOpts...)
		client, err := smtp.New(a.config.SMTP, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return client, nil
	}
}

// routes builds the router and wraps it, outermost first, in
// Recoverer, RequestID, Logging, AllowIP and BodyLimit. The chain wraps the
// router instead of going through mux.Use, which only runs for matched
// routes, so unknown paths are filtered too.
func (a *App) routes() (http.Handler, error) {
	allowed, err := a.config.AllowedAddr()
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Handle("/", handler.Handle(health.Liveness, a.renderError)).Methods(http.MethodGet)
	r.Handle("/send-email", handler.Handle(a.sendEmail, a.renderError)).Methods(http.MethodPost)
	if a.config.MetricsEnabled {
		r.Handle("/metrics", metrics.MetricsHandler()).Methods(http.MethodGet)
	}
	r.MethodNotAllowedHandler = handler.Handle(func(*http.Request) handler.Response {
		return response.Status(http.StatusMethodNotAllowed)
	}, a.renderError)

	return middleware.Chain(r,
		middleware.RecovererWithConfig(middleware.RecovererConfig{
			Logger:   a.logger,
			Response: handler.Handle(panicReply, nil),
		}),
		middleware.RequestID(),
		middleware.LoggingWithLogger(a.logger),
		middleware.AllowIPWithConfig(middleware.AllowIPConfig{
			Allowed: []netip.Addr{allowed},
			Logger:  a.logger,
			OnDeny:  func(*http.Request) { metrics.AccessDenied.Inc() },
		}),
		middleware.BodyLimit(),
	), nil
}

func panicReply(*http.Request) handler.Response {
	return reply(http.StatusInternalServerError, MsgSendFailed)
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Addr returns the bound address once Run has started listening.
func (a *App) Addr() string {
	return a.server.Addr()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
// A bind failure is returned immediately.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting mail relay", slog.Any("config", a.config))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(a.server.Run(ctx, a.handler))

	return eg.Wait()
}
