package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/mailrelay/core/email"
	"github.com/dmitrymomot/mailrelay/core/handler"
	"github.com/dmitrymomot/mailrelay/core/logger"
	"github.com/dmitrymomot/mailrelay/core/response"
)

// sendEmail handles POST /send-email. Exactly one delivery attempt is made.
func (a *App) sendEmail(r *http.Request) handler.Response {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Bodies without a declared length hit the cap only while decoding.
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return response.Status(http.StatusRequestEntityTooLarge)
		}
		a.logger.DebugContext(r.Context(), "malformed request body", logger.Component("relay"), logger.Error(err))
		return reply(http.StatusBadRequest, MsgInvalidFormat)
	}

	if !strings.Contains(req.Email, "@") {
		return reply(http.StatusBadRequest, MsgInvalidEmail)
	}
	if req.Code == "" {
		return reply(http.StatusBadRequest, MsgInvalidFormat)
	}

	// The dialogue runs to completion even if the caller hangs up.
	ctx := context.WithoutCancel(r.Context())

	err := a.sender.SendVerification(ctx, email.VerificationParams{
		SendTo: req.Email,
		Code:   req.Code,
		Tag:    "verification",
	})
	if err != nil {
		a.logSendFailure(ctx, req.Email, err)
		return reply(http.StatusInternalServerError, MsgSendFailed)
	}

	a.logger.InfoContext(ctx, "verification email sent",
		logger.Component("relay"),
		logger.Recipient(req.Email),
	)
	return response.JSON(EmailResponse{Success: true, Message: MsgSent})
}

func (a *App) logSendFailure(ctx context.Context, to string, err error) {
	attrs := []slog.Attr{
		logger.Component("relay"),
		logger.Recipient(to),
		logger.Error(err),
	}

	var e *email.Error
	if errors.As(err, &e) {
		attrs = append(attrs,
			logger.ErrorKind(string(e.Kind)),
			slog.String("op", e.Op),
			logger.Group("smtp", logger.SMTPCode(e.Code), logger.SMTPReply(e.Reply)),
		)
	}

	a.logger.LogAttrs(ctx, slog.LevelError, "failed to send verification email", attrs...)
}

// renderError is the handler.ErrorHandler of every route. By the time a
// Response fails the status line is usually out, so it only logs.
func (a *App) renderError(_ http.ResponseWriter, r *http.Request, err error) {
	a.logger.ErrorContext(r.Context(), "failed to render response",
		logger.Component("relay"),
		logger.Path(r.URL.Path),
		logger.Error(err),
	)
}

func reply(status int, message string) handler.Response {
	return response.JSONWithStatus(EmailResponse{Success: false, Message: message}, status)
}
