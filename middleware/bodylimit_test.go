package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mailrelay/middleware"
)

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	readAll := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write(body)
	})

	tests := []struct {
		name         string
		body         string
		hideLength   bool
		wantStatus   int
		wantBodyEcho bool
	}{
		{name: "under limit", body: strings.Repeat("a", 10), wantStatus: http.StatusOK, wantBodyEcho: true},
		{name: "at limit", body: strings.Repeat("a", 16), wantStatus: http.StatusOK, wantBodyEcho: true},
		{name: "declared length over limit", body: strings.Repeat("a", 17), wantStatus: http.StatusRequestEntityTooLarge},
		{name: "undeclared length over limit", body: strings.Repeat("a", 17), hideLength: true, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := middleware.BodyLimitWithSize(16)(readAll)

			r := httptest.NewRequest(http.MethodPost, "/send-email", strings.NewReader(tt.body))
			if tt.hideLength {
				r.ContentLength = -1
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBodyEcho {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestBodyLimit_Default(t *testing.T) {
	t.Parallel()

	h := middleware.BodyLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", int(middleware.DefaultBodyLimit)+1)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := middleware.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
