package health

import (
	"net/http"

	"github.com/dmitrymomot/mailrelay/core/handler"
	"github.com/dmitrymomot/mailrelay/core/response"
)

// Liveness indicates if the service process is running.
// Always returns "ok" with 200 OK. No dependency checks, so a broken SMTP
// upstream never fails the probe.
//
// Example:
//
//	router.Handle("/", handler.Handle(health.Liveness, nil)).Methods(http.MethodGet)
func Liveness(*http.Request) handler.Response {
	return response.String("ok")
}
