package controller

import (
	"net/http"
	"slices"
)

// WithCORS returns a middleware that allows cross-origin calls from the given
// origins ("*" allows any) and answers OPTIONS preflight requests with 204.
func WithCORS(origins []string) func(http.Handler) http.Handler {
	anyOrigin := slices.Contains(origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case anyOrigin:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Request-Id")
			w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
