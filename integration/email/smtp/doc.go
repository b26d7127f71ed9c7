// Package smtp provides an SMTP submission implementation of email.Sender.
//
// Every call opens a fresh session: connect, EHLO, STARTTLS, EHLO again,
// AUTH, MAIL, RCPT, DATA, QUIT. The message is composed before dialing, so
// malformed addresses never reach the network. Failures come back as
// *email.Error with a Kind (transport, auth, submit and so on) and, when the
// server replied, the SMTP code and text.
//
// Basic usage:
//
//	cfg := smtp.Config{
//		Host:        "smtp.gmail.com",
//		Port:        587,
//		Username:    "relay@example.com",
//		Password:    "app-password",
//		TLSMode:     smtp.TLSModeSTARTTLS,
//		SenderEmail: "noreply@example.com",
//	}
//
//	sender, err := smtp.New(cfg, smtp.WithLogger(log))
//	if err != nil {
//		// Handle configuration error
//	}
//
//	err = sender.SendVerification(ctx, email.VerificationParams{
//		SendTo: "user@example.com",
//		Code:   "1234",
//	})
//	switch email.KindOf(err) {
//	case email.KindAuth:
//		// Credentials rejected
//	case email.KindTransport:
//		// Connection, TLS or deadline problem
//	}
//
// # Configuration
//
// Config is loaded from the environment with core/config:
//
//   - SMTP_HOST, SMTP_PORT: upstream server, default smtp.gmail.com:587
//   - SMTP_USERNAME, SMTP_PASSWORD: AUTH credentials (required)
//   - FROM_EMAIL: sender address, RFC 5322 (required)
//   - SMTP_TLS_MODE: "starttls" (default), "tls" or "plain"
//   - SMTP_TIMEOUT, SMTP_DIAL_TIMEOUT, SMTP_TLS_TIMEOUT: 30s, 10s, 10s
//
// Config implements slog.LogValuer and never logs the password.
//
// # TLS Modes
//
//   - "starttls": plain connection upgraded with STARTTLS; a server that does
//     not advertise it is a transport failure. The EHLO before the upgrade
//     is sent as "localhost", the one after it with the local hostname
//   - "tls": implicit TLS from connect (port 465)
//   - "plain": no encryption, for local stubs only
//
// Certificates are verified against the system roots unless a base config
// with RootCAs is supplied via WithTLSConfig.
//
// # Authentication
//
// PLAIN is used when advertised, LOGIN otherwise. A server offering neither
// fails with ErrNoAuthMechanism.
package smtp
