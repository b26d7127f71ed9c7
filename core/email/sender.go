package email

import (
	"context"
	"errors"
	"strings"
)

// Sender delivers verification emails.
type Sender interface {
	SendVerification(ctx context.Context, params VerificationParams) error
}

// VerificationParams describes a single verification email.
type VerificationParams struct {
	SendTo string // recipient address
	Code   string // opaque verification code, included verbatim
	Tag    string // optional, used for dev file names and metrics
}

// Validate performs the cheap pre-flight checks. Address syntax is checked
// later, during message assembly.
func (p VerificationParams) Validate() error {
	var errs []error
	if strings.TrimSpace(p.SendTo) == "" {
		errs = append(errs, errors.New("recipient is required"))
	}
	if p.Code == "" {
		errs = append(errs, errors.New("code is required"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidParams}, errs...)...)
	}
	return nil
}
