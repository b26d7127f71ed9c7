package middleware

import (
	"net/http"
)

// DefaultBodyLimit is the request body cap used by BodyLimit.
const DefaultBodyLimit int64 = 64 << 10 // 64KB

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool

	// MaxSize is the maximum allowed size in bytes (default: 64KB)
	MaxSize int64

	// ErrorHandler handles requests whose Content-Length exceeds the limit
	// (default: 413 with an empty body). Bodies without a declared length are
	// cut off by http.MaxBytesReader while the handler reads them.
	ErrorHandler http.Handler
}

// BodyLimit creates a body limit middleware with the default 64KB cap.
func BodyLimit() Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{})
}

// BodyLimitWithSize creates a body limit middleware with a specified size limit.
func BodyLimitWithSize(maxSize int64) Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig creates a body limit middleware with custom configuration.
func BodyLimitWithConfig(cfg BodyLimitConfig) Middleware {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultBodyLimit
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > cfg.MaxSize {
				cfg.ErrorHandler.ServeHTTP(w, r)
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxSize)
			}

			next.ServeHTTP(w, r)
		})
	}
}
