package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"userservice/pkg/controller"

	"github.com/stretchr/testify/require"
)

const timeoutBody = `{"code":"UNAVAILABLE","message":"request timed out"}`

func TestWithTimeout_TimedOut(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	rec := httptest.NewRecorder()
	controller.WithTimeout(10*time.Millisecond, timeoutBody)(next).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/1", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, timeoutBody, rec.Body.String())
}

func TestWithTimeout_KeepsHandlerContentType(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	rec := httptest.NewRecorder()
	controller.WithTimeout(time.Second, timeoutBody)(next).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
}

func TestWithTimeout_Disabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline := r.Context().Deadline()
		require.False(t, hasDeadline)
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	controller.WithTimeout(0, timeoutBody)(next).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
}
