package email

import (
	"errors"
	"fmt"
	"strings"
)

// Error variables define email operation failures that can be wrapped with
// detailed context using errors.Join() for comprehensive error reporting.
var (
	ErrFailedToSendEmail = errors.New("failed to send email")
	ErrInvalidConfig     = errors.New("invalid email configuration")
	ErrInvalidParams     = errors.New("invalid email parameters")
)

// Kind classifies a delivery failure.
type Kind string

const (
	// KindInvalidSender: the configured sender address does not parse.
	KindInvalidSender Kind = "invalid_sender"
	// KindInvalidRecipient: the recipient address does not parse.
	KindInvalidRecipient Kind = "invalid_recipient"
	// KindBuild: MIME assembly failed.
	KindBuild Kind = "build"
	// KindTransport: connect, TLS negotiation, missing STARTTLS or deadline.
	KindTransport Kind = "transport"
	// KindAuth: the server refused authentication.
	KindAuth Kind = "auth"
	// KindSubmit: MAIL, RCPT or DATA was rejected.
	KindSubmit Kind = "submit"
)

// Error is a classified delivery failure. Code and Reply hold the SMTP
// reply when the failure came from the server.
type Error struct {
	Kind  Kind
	Op    string
	Code  int
	Reply string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Code != 0 {
		fmt.Fprintf(&b, " (smtp %d)", e.Code)
	}
	return b.String()
}

// Unwrap exposes both ErrFailedToSendEmail and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFailedToSendEmail}
	}
	return []error{ErrFailedToSendEmail, e.Err}
}

// KindOf returns the failure kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
