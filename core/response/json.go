package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/mailrelay/core/handler"
)

// JSON replies 200 with v encoded as JSON.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus replies with v encoded as JSON. A zero status means 200,
// or 204 when v is nil.
//
// v is marshaled before anything is written, so an encoding failure turns
// into a bare 500 instead of a truncated body.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		if status == 0 && v == nil {
			status = http.StatusNoContent
		}

		body, err := json.Marshal(v)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return fmt.Errorf("encode json response: %w", err)
		}

		return write(w, orOK(status), contentTypeJSON, body)
	}
}
