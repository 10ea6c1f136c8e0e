package controller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"userservice/pkg/controller"
	"userservice/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{name: "x-forwarded-for first hop", header: map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, want: "1.2.3.4"},
		{name: "x-real-ip", header: map[string]string{"X-Real-IP": "9.8.7.6"}, want: "9.8.7.6"},
		{name: "remote addr", remote: "10.0.0.1:12345", want: "10.0.0.1"},
		{name: "invalid remote addr passes through", remote: "not-an-addr", want: "not-an-addr"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			if tc.remote != "" {
				req.RemoteAddr = tc.remote
			}
			require.Equal(t, tc.want, controller.GetClientIP(req))
		})
	}
}

func TestWithLogger_RequestIDAndAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := logger.WithLogger(context.Background(), zap.New(core))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Echo-Request-Id", controller.RequestID(r.Context()))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil).WithContext(base)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	controller.WithLogger(next).ServeHTTP(rec, req)

	res := rec.Result()
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, "abc-123", res.Header.Get("X-Echo-Request-Id"))
	require.Equal(t, "abc-123", res.Header.Get("X-Request-Id"))

	entries := logs.FilterMessage("access log").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.EqualValues(t, http.StatusCreated, fields["status_code"])
	require.EqualValues(t, 5, fields["bytes"])
	require.Equal(t, "abc-123", fields["requestID"])
}

func TestWithLogger_GeneratesRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Echo-Request-Id", controller.RequestID(r.Context()))
	})

	rec := httptest.NewRecorder()
	controller.WithLogger(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	res := rec.Result()
	require.NotEmpty(t, res.Header.Get("X-Echo-Request-Id"))
	require.Equal(t, res.Header.Get("X-Echo-Request-Id"), res.Header.Get("X-Request-Id"))
}
