package response

import (
	"net/http"
	"strconv"

	"github.com/dmitrymomot/mailrelay/core/handler"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// String replies 200 with a text/plain body.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus replies with a text/plain body. A zero status means 200.
func StringWithStatus(content string, status int) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return write(w, orOK(status), contentTypeText, []byte(content))
	}
}

// Status replies with an empty body. A zero code means 200.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(orOK(code))
		return nil
	}
}

// write sends a complete response with an explicit Content-Length.
// Bodies are dropped for statuses that must not carry one.
func write(w http.ResponseWriter, status int, contentType string, body []byte) error {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("X-Content-Type-Options", "nosniff")

	if !bodyAllowed(status) || len(body) == 0 {
		w.WriteHeader(status)
		return nil
	}

	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

func orOK(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}
