package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements Sender for local development.
// It saves each composed message as an .eml file plus JSON metadata
// instead of submitting it to an SMTP server.
type DevSender struct {
	dir  string
	from string
}

// NewDevSender creates a development sender that writes into dir.
// The directory is created on first send.
func NewDevSender(dir, from string) *DevSender {
	return &DevSender{dir: dir, from: from}
}

// emailMetadata is the JSON sidecar written next to each .eml file.
type emailMetadata struct {
	Timestamp string `json:"timestamp"`
	MessageID string `json:"message_id"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

// SendVerification composes the message exactly as the SMTP sender would and
// writes it to disk.
func (d *DevSender) SendVerification(ctx context.Context, params VerificationParams) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: KindTransport, Op: "write", Err: err}
	}
	if err := params.Validate(); err != nil {
		return err
	}

	now := time.Now()
	msg, err := BuildVerificationMessage(d.from, params.SendTo, params.Code, now)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return &Error{Kind: KindTransport, Op: "write", Err: fmt.Errorf("failed to create directory: %w", err)}
	}

	identifier := params.Tag
	if identifier == "" {
		identifier = VerificationSubject
	}
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405.000000"), sanitizeFilename(identifier))

	if err := os.WriteFile(filepath.Join(d.dir, base+".eml"), msg.Raw, 0o644); err != nil {
		return &Error{Kind: KindTransport, Op: "write", Err: fmt.Errorf("failed to write message file: %w", err)}
	}

	meta, err := json.MarshalIndent(emailMetadata{
		Timestamp: now.Format(time.RFC3339),
		MessageID: msg.MessageID,
		SendTo:    msg.To,
		Subject:   VerificationSubject,
		Tag:       params.Tag,
	}, "", "  ")
	if err != nil {
		return &Error{Kind: KindBuild, Op: "write", Err: fmt.Errorf("failed to marshal metadata: %w", err)}
	}

	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), meta, 0o644); err != nil {
		return &Error{Kind: KindTransport, Op: "write", Err: fmt.Errorf("failed to write metadata file: %w", err)}
	}

	return nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename lowercases s, turns spaces into underscores, strips
// anything unsafe and caps the length.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
