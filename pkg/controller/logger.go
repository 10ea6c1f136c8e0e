package controller

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
	"userservice/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusRecorder captures the status code and body size written downstream.
type statusRecorder struct {
	http.ResponseWriter

	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n

	return n, err //nolint: wrapcheck
}

// GetClientIP returns the originating client IP, preferring X-Forwarded-For,
// then X-Real-IP, then the connection's remote address.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2"
		client, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(client)
	}

	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}

// CtxKey is the type of context keys set by this package.
type CtxKey string

const (
	// RequestIDKey holds the request ID as a string.
	RequestIDKey CtxKey = "requestID"
)

// RequestID returns the request ID stored in ctx by WithLogger.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)

	return id
}

// WithLogger attaches a request ID (taken from X-Request-Id or generated) and
// a logger carrying it to the request context, echoes the ID in the response
// and writes an access log entry once the handler returns.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		ctx = logger.WithFields(ctx, zap.String(string(RequestIDKey), requestID))

		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info(ctx, "access log",
			zap.Int("status_code", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Float64("latency", time.Since(start).Seconds()),
			zap.String("client_ip", GetClientIP(r)),
			zap.String("user_agent", r.UserAgent()),
			zap.String("url", r.URL.String()),
			zap.String("referer", r.Referer()),
			zap.String("method", r.Method),
		)
	})
}
