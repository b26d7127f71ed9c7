package handler

import "net/http"

// Response is a function that renders HTTP responses.
// It sets headers, status code, and writes the response body.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc builds the response for a request.
type HandlerFunc func(r *http.Request) Response

// ErrorHandler handles errors returned while rendering a response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Handle adapts fn to http.Handler. Rendering errors go to onError; a nil
// onError falls back to DefaultErrorHandler.
func Handle(fn HandlerFunc, onError ErrorHandler) http.Handler {
	if onError == nil {
		onError = DefaultErrorHandler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := fn(r)
		if resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := resp(w, r); err != nil {
			onError(w, r, err)
		}
	})
}

// DefaultErrorHandler replies with a bare 500. Internal error text is never
// sent to the client.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
