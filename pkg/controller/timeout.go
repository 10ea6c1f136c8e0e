package controller

import (
	"net/http"
	"time"
)

// jsonTimeoutWriter marks the timeout answer of http.TimeoutHandler as JSON.
// Responses of the wrapped handler carry their own Content-Type, which the
// timeout handler copies before writing the status.
type jsonTimeoutWriter struct {
	http.ResponseWriter
}

func (w jsonTimeoutWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.ResponseWriter.WriteHeader(code)
}

// WithTimeout answers with 503 and the JSON document body when the next
// handler does not finish within timeout. A non-positive timeout disables it.
func WithTimeout(timeout time.Duration, body string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		th := http.TimeoutHandler(next, timeout, body)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			th.ServeHTTP(jsonTimeoutWriter{ResponseWriter: w}, r)
		})
	}
}
