// Package middleware provides net/http middleware for the relay.
//
// Every constructor returns a Middleware, func(http.Handler) http.Handler,
// so the values plug into gorilla/mux's Use as well as into Chain. Most come
// in two forms, a default constructor and a WithConfig variant:
//
//	h := middleware.Chain(router,
//		middleware.Recoverer(),
//		middleware.RequestID(),
//		middleware.LoggingWithLogger(log),
//		middleware.AllowIP(netip.MustParseAddr("127.0.0.1")),
//		middleware.BodyLimit(),
//	)
//
// AllowIP decides on the socket peer address only. It answers 403 with an
// empty body and never reads forwarding headers.
//
// RequestID stores the id in the request context; pair RequestIDExtractor
// with logger.WithContextExtractors to stamp it on every log record.
package middleware
