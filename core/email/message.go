package email

import (
	"bytes"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// VerificationSubject is the fixed subject of every verification email.
const VerificationSubject = "Your verification code"

const textTemplate = "Hello!\n\n" +
	"Your verification code: %s\n\n" +
	"The code is valid for 10 minutes. Do not share this code with anyone\n\n" +
	"If you did not request this code, please ignore this email.\n"

const htmlTemplate = `<!DOCTYPE html>
<html>
    <head><meta charset="UTF-8"></head>
    <body style="font-family: Arial, sans-serif; margin: 20px;">
        <h2>Verification code</h2>
        <p>Your code to complete registration:</p>
        <div style="font-size: 32px; font-weight: bold; letter-spacing: 8px;
                    text-align: center; margin: 25px 0; padding: 15px;
                    background: #f8f9fa; border-radius: 8px; border: 2px dashed #dee2e6;">
            %s
        </div>
        <p style="color: #6c757d; font-size: 14px;">
            The code is valid for 10 minutes. Do not share this code with anyone.
        </p>
    </body>
</html>
`

// VerificationText renders the plain-text body.
func VerificationText(code string) string {
	return fmt.Sprintf(textTemplate, code)
}

// VerificationHTML renders the HTML body. The code is inserted as is.
func VerificationHTML(code string) string {
	return fmt.Sprintf(htmlTemplate, code)
}

// Message is an assembled verification email ready for submission.
type Message struct {
	From      string // bare sender address for MAIL FROM
	To        string // bare recipient address for RCPT TO
	MessageID string
	Raw       []byte // RFC 5322 serialization
}

// BuildVerificationMessage parses both addresses and assembles the
// multipart/alternative message: text/plain first, text/html second, both
// quoted-printable in UTF-8. No I/O beyond memory happens here.
func BuildVerificationMessage(from, to, code string, now time.Time) (*Message, error) {
	sender, err := parseAddress(from)
	if err != nil {
		return nil, &Error{Kind: KindInvalidSender, Op: "compose", Err: fmt.Errorf("invalid from email: %w", err)}
	}

	rcpt, err := parseAddress(to)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRecipient, Op: "compose", Err: fmt.Errorf("invalid to email: %w", err)}
	}

	id := messageID(sender.Address)

	m := gomail.NewMessage(gomail.SetCharset("UTF-8"), gomail.SetEncoding(gomail.QuotedPrintable))
	m.SetAddressHeader("From", sender.Address, sender.Name)
	m.SetAddressHeader("To", rcpt.Address, rcpt.Name)
	m.SetHeader("Subject", VerificationSubject)
	m.SetHeader("Message-Id", id)
	m.SetDateHeader("Date", now)
	m.SetBody("text/plain", VerificationText(code))
	m.AddAlternative("text/html", VerificationHTML(code))

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, &Error{Kind: KindBuild, Op: "compose", Err: fmt.Errorf("failed to build email: %w", err)}
	}

	return &Message{
		From:      sender.Address,
		To:        rcpt.Address,
		MessageID: id,
		Raw:       buf.Bytes(),
	}, nil
}

// ValidateAddress reports whether s is an RFC 5322 address this service can
// deliver to. Internationalized addresses are rejected.
func ValidateAddress(s string) error {
	_, err := parseAddress(s)
	return err
}

func parseAddress(s string) (*mail.Address, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(addr.Address); i++ {
		if addr.Address[i] >= 0x80 {
			return nil, errors.New("internationalized addresses are not supported")
		}
	}
	return addr, nil
}

func messageID(sender string) string {
	domain := "localhost"
	if at := strings.LastIndexByte(sender, '@'); at >= 0 && at < len(sender)-1 {
		domain = sender[at+1:]
	}
	return "<" + uuid.NewString() + "@" + domain + ">"
}
