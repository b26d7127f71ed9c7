package middleware

import "net/http"

// Middleware wraps an http.Handler. It matches mux.MiddlewareFunc.
type Middleware = func(http.Handler) http.Handler

// Chain wraps h so the first middleware is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
