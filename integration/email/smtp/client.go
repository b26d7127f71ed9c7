package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"

	"github.com/dmitrymomot/mailrelay/core/email"
	"github.com/dmitrymomot/mailrelay/core/logger"
)

// ErrNoAuthMechanism is returned when neither PLAIN nor LOGIN is advertised.
var ErrNoAuthMechanism = errors.New("no supported authentication mechanism")

// Client implements email.Sender over SMTP submission.
// Each call opens a fresh session; the client holds no connection state and is
// safe for concurrent use.
type Client struct {
	config    Config
	addr      string
	tlsConfig *tls.Config
	logger    *slog.Logger
	localName string
	now       func() time.Time
}

var _ email.Sender = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTLSConfig sets the base TLS configuration. ServerName defaults to the
// SMTP host and the minimum version is raised to TLS 1.2.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		c.tlsConfig = cfg
	}
}

// WithLogger sets the logger for dialogue diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLocalName overrides the EHLO name. Defaults to the machine hostname.
func WithLocalName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.localName = name
		}
	}
}

// New creates an SMTP-backed sender. The configuration is validated up front
// so a broken setup fails at startup rather than on the first request.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: Host is required", email.ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: Port must be between 1 and 65535", email.ErrInvalidConfig)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: Username is required", email.ErrInvalidConfig)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: Password is required", email.ErrInvalidConfig)
	}
	switch cfg.TLSMode {
	case TLSModeSTARTTLS, TLSModeTLS, TLSModePlain:
	default:
		return nil, fmt.Errorf("%w: TLSMode must be starttls, tls, or plain", email.ErrInvalidConfig)
	}
	if err := email.ValidateAddress(cfg.SenderEmail); err != nil {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", email.ErrInvalidConfig)
	}
	if cfg.Timeout < 0 || cfg.DialTimeout < 0 || cfg.TLSTimeout < 0 {
		return nil, fmt.Errorf("%w: timeouts must not be negative", email.ErrInvalidConfig)
	}

	c := &Client{
		config:    cfg.withDefaults(),
		addr:      net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		logger:    slog.New(slog.DiscardHandler),
		localName: localHostname(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNewClient creates an SMTP client that panics on invalid config.
func MustNewClient(cfg Config, opts ...Option) *Client {
	client, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// SendVerification composes the verification email and submits it in a
// single SMTP session. The message is assembled before any connection is
// opened, so address errors never touch the network.
func (c *Client) SendVerification(ctx context.Context, params email.VerificationParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	msg, err := email.BuildVerificationMessage(c.config.SenderEmail, params.SendTo, params.Code, c.now())
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return &email.Error{Kind: email.KindTransport, Op: "dial", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	err = c.send(ctx, msg)

	result := "accepted"
	if err != nil {
		result = "failed"
	}
	c.logger.DebugContext(ctx, "smtp session finished",
		logger.Component("smtp"),
		logger.SMTPServer(c.config.Host, c.config.Port),
		logger.Recipient(msg.To),
		slog.String("message_id", msg.MessageID),
		logger.Result(result),
		logger.Elapsed(start),
		logger.Error(err),
	)

	return err
}

func (c *Client) send(ctx context.Context, msg *email.Message) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client, err := c.open(ctx, conn)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := c.authenticate(ctx, client); err != nil {
		return err
	}

	if err := client.Mail(msg.From, nil); err != nil {
		return classify(ctx, email.KindSubmit, "mail", err)
	}
	if err := client.Rcpt(msg.To, nil); err != nil {
		return classify(ctx, email.KindSubmit, "rcpt", err)
	}

	w, err := client.Data()
	if err != nil {
		return classify(ctx, email.KindSubmit, "data", err)
	}
	if _, err := w.Write(msg.Raw); err != nil {
		_ = w.Close()
		return classify(ctx, email.KindSubmit, "data", err)
	}
	if err := w.Close(); err != nil {
		return classify(ctx, email.KindSubmit, "data", err)
	}

	// The message is accepted at this point. Some servers drop the
	// connection right after DATA.
	if err := client.Quit(); err != nil {
		c.logger.WarnContext(ctx, "smtp quit failed after accepted message",
			logger.Component("smtp"),
			logger.SMTPServer(c.config.Host, c.config.Port),
			logger.Error(err),
		)
	}

	return nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	d := &net.Dialer{Timeout: c.config.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, classify(ctx, email.KindTransport, "dial", err)
	}

	if c.config.TLSMode != TLSModeTLS {
		return conn, nil
	}

	tlsCtx, cancel := context.WithTimeout(ctx, c.config.TLSTimeout)
	defer cancel()

	tc := tls.Client(conn, c.clientTLSConfig())
	if err := tc.HandshakeContext(tlsCtx); err != nil {
		_ = conn.Close()
		return nil, classify(tlsCtx, email.KindTransport, "tls", err)
	}
	return tc, nil
}

// open runs the greeting phase. In STARTTLS mode go-smtp sends the first
// EHLO itself as "localhost", issues STARTTLS, and the following Hello
// performs the handshake and the second EHLO under the TLS deadline.
func (c *Client) open(ctx context.Context, conn net.Conn) (*gosmtp.Client, error) {
	if c.config.TLSMode != TLSModeSTARTTLS {
		client := c.withTimeouts(gosmtp.NewClient(conn))
		if err := client.Hello(c.localName); err != nil {
			_ = client.Close()
			return nil, classify(ctx, email.KindTransport, "ehlo", err)
		}
		return client, nil
	}

	tlsCtx, cancel := context.WithTimeout(ctx, c.config.TLSTimeout)
	defer cancel()
	stop := context.AfterFunc(tlsCtx, func() { _ = conn.Close() })
	defer stop()

	client, err := gosmtp.NewClientStartTLS(conn, c.clientTLSConfig())
	if err != nil {
		return nil, classify(tlsCtx, email.KindTransport, "starttls", err)
	}
	c.withTimeouts(client)

	if err := client.Hello(c.localName); err != nil {
		_ = client.Close()
		return nil, classify(tlsCtx, email.KindTransport, "starttls", err)
	}
	return client, nil
}

func (c *Client) withTimeouts(client *gosmtp.Client) *gosmtp.Client {
	client.CommandTimeout = c.config.Timeout
	client.SubmissionTimeout = c.config.Timeout
	return client
}

func (c *Client) authenticate(ctx context.Context, client *gosmtp.Client) error {
	var mech sasl.Client
	switch {
	case client.SupportsAuth(sasl.Plain):
		mech = sasl.NewPlainClient("", c.config.Username, c.config.Password)
	case client.SupportsAuth(sasl.Login):
		mech = sasl.NewLoginClient(c.config.Username, c.config.Password)
	default:
		return &email.Error{Kind: email.KindAuth, Op: "auth", Err: ErrNoAuthMechanism}
	}

	if err := client.Auth(mech); err != nil {
		return classify(ctx, email.KindAuth, "auth", err)
	}
	return nil
}

func (c *Client) clientTLSConfig() *tls.Config {
	cfg := &tls.Config{}
	if c.tlsConfig != nil {
		cfg = c.tlsConfig.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = c.config.Host
	}
	if cfg.MinVersion < tls.VersionTLS12 {
		cfg.MinVersion = tls.VersionTLS12
	}
	return cfg
}

// classify wraps err as an *email.Error. Server replies keep the phase kind
// and carry the reply code; deadlines and broken connections are transport
// failures whatever the phase.
func classify(ctx context.Context, kind email.Kind, op string, err error) error {
	e := &email.Error{Kind: kind, Op: op, Err: err}

	var se *gosmtp.SMTPError
	if errors.As(err, &se) {
		e.Code = se.Code
		e.Reply = se.Message
		return e
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		e.Kind = email.KindTransport
		e.Err = fmt.Errorf("%w: %w", ctxErr, err)
		return e
	}

	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		e.Kind = email.KindTransport
	}
	return e
}

func localHostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
}
