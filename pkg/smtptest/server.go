package smtptest

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io"
	"math/big"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Options configures the stub server. The zero value accepts any
// credentials over a plain connection.
type Options struct {
	// Username and Password are the only accepted credentials when set.
	Username string
	Password string

	// STARTTLS advertises STARTTLS with a self-signed certificate for
	// 127.0.0.1 and localhost. AUTH is then offered only after the upgrade.
	STARTTLS bool

	// Mechanisms lists advertised SASL mechanisms. Default: PLAIN, LOGIN.
	Mechanisms []string

	// Rejections returned from the corresponding command when non-nil.
	MailError *smtp.SMTPError
	RcptError *smtp.SMTPError
	DataError *smtp.SMTPError

	// DataDelay stalls the DATA reply, for deadline tests.
	DataDelay time.Duration
}

// Message is a message accepted by the stub.
type Message struct {
	From          string
	To            []string
	Raw           []byte
	AuthMechanism string
	Username      string
	Hello         string // EHLO name in effect at DATA
	TLS           bool   // DATA arrived over TLS
}

// Server is an in-process SMTP submission server for tests.
type Server struct {
	Host string
	Port int
	Addr string

	opts  Options
	srv   *smtp.Server
	roots *x509.CertPool
	conns atomic.Int64

	mu       sync.Mutex
	messages []Message
}

// NewServer starts a stub server on 127.0.0.1 and stops it on test cleanup.
func NewServer(tb testing.TB, opts Options) *Server {
	tb.Helper()

	if len(opts.Mechanisms) == 0 {
		opts.Mechanisms = []string{sasl.Plain, sasl.Login}
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("smtptest: listen: %v", err)
	}

	s := &Server{
		Host: "127.0.0.1",
		Port: ln.Addr().(*net.TCPAddr).Port,
		Addr: ln.Addr().String(),
		opts: opts,
	}

	srv := smtp.NewServer(&backend{s: s})
	srv.Domain = "localhost"
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.MaxMessageBytes = 1 << 20
	srv.MaxRecipients = 10
	srv.AllowInsecureAuth = !opts.STARTTLS

	if opts.STARTTLS {
		cert, roots, err := selfSignedCert()
		if err != nil {
			_ = ln.Close()
			tb.Fatalf("smtptest: certificate: %v", err)
		}
		srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		s.roots = roots
	}
	s.srv = srv

	go func() { _ = srv.Serve(&countingListener{Listener: ln, n: &s.conns}) }()
	tb.Cleanup(s.Close)

	return s
}

// RootCAs returns a pool that trusts the stub certificate, or nil without STARTTLS.
func (s *Server) RootCAs() *x509.CertPool { return s.roots }

// Connections reports how many TCP connections were accepted.
func (s *Server) Connections() int { return int(s.conns.Load()) }

// Messages returns a copy of the accepted messages.
func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Close stops the server.
func (s *Server) Close() { _ = s.srv.Close() }

func (s *Server) store(m Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
}

type countingListener struct {
	net.Listener
	n *atomic.Int64
}

func (l *countingListener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err == nil {
		l.n.Add(1)
	}
	return c, err
}

type backend struct{ s *Server }

func (b *backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &session{s: b.s, conn: c}, nil
}

var errAuthRequired = &smtp.SMTPError{
	Code:         530,
	EnhancedCode: smtp.EnhancedCode{5, 7, 0},
	Message:      "Authentication required",
}

var errBadCredentials = &smtp.SMTPError{
	Code:         535,
	EnhancedCode: smtp.EnhancedCode{5, 7, 8},
	Message:      "Username and Password not accepted",
}

type session struct {
	s        *Server
	conn     *smtp.Conn
	authed   bool
	mech     string
	username string
	from     string
	to       []string
}

func (ss *session) AuthMechanisms() []string { return ss.s.opts.Mechanisms }

func (ss *session) Auth(mech string) (sasl.Server, error) {
	check := func(username, password string) error {
		o := ss.s.opts
		if o.Username != "" && (username != o.Username || password != o.Password) {
			return errBadCredentials
		}
		ss.authed = true
		ss.mech = mech
		ss.username = username
		return nil
	}

	switch mech {
	case sasl.Plain:
		return sasl.NewPlainServer(func(_, username, password string) error {
			return check(username, password)
		}), nil
	case sasl.Login:
		return &loginServer{authenticate: check}, nil
	default:
		return nil, smtp.ErrAuthUnsupported
	}
}

func (ss *session) Mail(from string, _ *smtp.MailOptions) error {
	if !ss.authed {
		return errAuthRequired
	}
	if ss.s.opts.MailError != nil {
		return ss.s.opts.MailError
	}
	ss.from = from
	return nil
}

func (ss *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	if ss.s.opts.RcptError != nil {
		return ss.s.opts.RcptError
	}
	ss.to = append(ss.to, to)
	return nil
}

func (ss *session) Data(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	if d := ss.s.opts.DataDelay; d > 0 {
		time.Sleep(d)
	}
	if ss.s.opts.DataError != nil {
		return ss.s.opts.DataError
	}
	_, isTLS := ss.conn.TLSConnectionState()
	ss.s.store(Message{
		From:          ss.from,
		To:            append([]string(nil), ss.to...),
		Raw:           buf.Bytes(),
		AuthMechanism: ss.mech,
		Username:      ss.username,
		Hello:         ss.conn.Hostname(),
		TLS:           isTLS,
	})
	return nil
}

func (ss *session) Reset() {
	ss.from = ""
	ss.to = nil
}

func (ss *session) Logout() error { return nil }

// loginServer implements the server side of SASL LOGIN. The client may send
// the username as an initial response.
type loginServer struct {
	authenticate func(username, password string) error
	step         int
	username     string
}

func (l *loginServer) Next(response []byte) ([]byte, bool, error) {
	switch l.step {
	case 0:
		if response == nil {
			l.step = 1
			return []byte("Username:"), false, nil
		}
		l.username = string(response)
		l.step = 2
		return []byte("Password:"), false, nil
	case 1:
		l.username = string(response)
		l.step = 2
		return []byte("Password:"), false, nil
	case 2:
		l.step = 3
		return nil, true, l.authenticate(l.username, string(response))
	default:
		return nil, true, errors.New("unexpected client response")
	}
}

func selfSignedCert() (tls.Certificate, *x509.CertPool, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, nil, err
	}

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "smtptest"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, nil, err
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return tls.Certificate{}, nil, err
	}

	pool := x509.NewCertPool()
	pool.AddCert(leaf)

	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}, pool, nil
}
