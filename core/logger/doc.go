// Package logger provides structured logging utilities built on Go's standard
// slog package: a logger factory with environment presets and a set of
// attribute helpers for HTTP and SMTP logging.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithProduction("mailrelay"),
//		logger.WithLevel(logger.ParseLevel("debug")),
//	)
//
//	log.Info("Server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// Development preset writes text at debug level; production writes JSON at
// info level. Both default to os.Stderr.
//
// # Context-Aware Logging
//
// Attributes stored in the request context can be injected into every record
// logged with a *Context method:
//
//	log := logger.New(
//		logger.WithProduction("mailrelay"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id, ok := middleware.RequestIDFromContext(ctx)
//			return logger.RequestID(id), ok
//		}),
//	)
//
// # SMTP Attributes
//
//	log.ErrorContext(ctx, "Mail delivery failed",
//		logger.ErrorKind("auth"),
//		logger.SMTPCode(535),
//		logger.SMTPReply("5.7.8 Authentication credentials invalid"),
//		logger.Recipient("user@example.com"), // u***@example.com
//	)
//
// Credentials must never be passed to the logger; configuration types that
// carry secrets implement slog.LogValuer to redact them.
package logger
