// Package v1handler implements the v1 HTTP API on top of users.Service.
package v1handler

import (
	"context"
	"errors"
	"net/http"
	"userservice/internal/users"
	"userservice/pkg/logger"
	"userservice/pkg/serrors"

	"github.com/go-faster/jx"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Deps are the collaborators of the v1 handlers.
type Deps struct {
	Users users.Service
}

type Handler struct {
	deps     Deps
	validate *validator.Validate
}

func New(deps Deps) *Handler {
	return &Handler{
		deps:     deps,
		validate: newValidator(),
	}
}

// Register mounts the v1 routes on mux behind the auth middleware.
func (h *Handler) Register(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("GET /v1/users/{id}", auth(http.HandlerFunc(h.GetUser)))
	mux.Handle("PUT /v1/users/{id}", auth(http.HandlerFunc(h.SaveUser)))
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

type kindStatus struct {
	status  int
	message string
}

var kindStatuses = map[serrors.Kind]kindStatus{ //nolint: gochecknoglobals
	serrors.ErrNotFound:     {http.StatusNotFound, "resource not found"},
	serrors.ErrBadRequest:   {http.StatusBadRequest, "bad request"},
	serrors.ErrUnauthorized: {http.StatusUnauthorized, "unauthorized"},
	serrors.ErrUnavailable:  {http.StatusServiceUnavailable, "service unavailable"},
}

// NewError maps err to a response. Errors without a known kind become 500s
// with a generic message; their details only go to the log.
func NewError(ctx context.Context, err error) *ErrorResponse {
	ks, ok := kindStatuses[serrors.KindOf(err)]
	if !ok {
		logger.Error(ctx, "request failed", zap.Error(err))

		return &ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       serrors.ErrInternal.Error(),
			Message:    "internal error",
		}
	}

	msg := ks.message
	var serr *serrors.Error
	if errors.As(err, &serr) && serr.Message() != "" {
		msg = serr.Message()
	}

	return &ErrorResponse{
		StatusCode: ks.status,
		Code:       serrors.KindOf(err).Error(),
		Message:    msg,
	}
}

func (e *ErrorResponse) Write(w http.ResponseWriter) {
	var enc jx.Encoder
	enc.Obj(func(enc *jx.Encoder) {
		enc.Field("code", func(enc *jx.Encoder) { enc.Str(e.Code) })
		enc.Field("message", func(enc *jx.Encoder) { enc.Str(e.Message) })
	})

	writeJSON(w, e.StatusCode, enc.Bytes())
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	NewError(r.Context(), err).Write(w)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
