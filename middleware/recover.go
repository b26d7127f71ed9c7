package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailrelay/core/logger"
)

// RecovererConfig configures the panic recovery middleware.
type RecovererConfig struct {
	// Logger receives the panic value and stack (default: slog.Default())
	Logger *slog.Logger

	// Response writes the reply after a panic (default: bare 500)
	Response http.Handler
}

// Recoverer creates a panic recovery middleware with default configuration.
func Recoverer() Middleware {
	return RecovererWithConfig(RecovererConfig{})
}

// RecovererWithConfig turns a panic in a downstream handler into a logged
// error and a 500 reply. http.ErrAbortHandler is re-raised so net/http can
// abort the connection silently.
func RecovererWithConfig(cfg RecovererConfig) Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Response == nil {
		cfg.Response = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				cfg.Logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered",
					logger.Component("http"),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Error(fmt.Errorf("panic: %v", rec)),
					logger.Stack(),
				)

				cfg.Response.ServeHTTP(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
