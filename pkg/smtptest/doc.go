// Package smtptest runs an in-process SMTP submission server for tests,
// in the spirit of net/http/httptest.
//
//	srv := smtptest.NewServer(t, smtptest.Options{
//		Username: "mailer@example.com",
//		Password: "secret",
//		STARTTLS: true,
//	})
//
//	// point a client at srv.Host/srv.Port and trust srv.RootCAs()
//
//	msgs := srv.Messages()
//	decoded, err := smtptest.Decode(msgs[0].Raw)
//	text, _ := decoded.Part("text/plain")
//
// The server counts accepted TCP connections, so tests can assert that no
// connection was opened at all.
package smtptest
