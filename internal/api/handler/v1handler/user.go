package v1handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"userservice/pkg/domain"
	"userservice/pkg/serrors"

	"github.com/go-faster/jx"
	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes bounds the size of request bodies.
const MaxBodyBytes = 1 << 20

// SaveUserRequest is the body of PUT /v1/users/{id}.
type SaveUserRequest struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"omitempty,email,max=320"`
}

// Decode reads the request from JSON. Unknown fields are ignored.
func (r *SaveUserRequest) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error { //nolint: wrapcheck
		switch key {
		case "name":
			v, err := d.Str()
			if err != nil {
				return fmt.Errorf("name: %w", err)
			}
			r.Name = v
		case "email":
			if d.Next() == jx.Null {
				return d.Null() //nolint: wrapcheck
			}
			v, err := d.Str()
			if err != nil {
				return fmt.Errorf("email: %w", err)
			}
			r.Email = v
		default:
			return d.Skip() //nolint: wrapcheck
		}

		return nil
	})
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")

		return name
	})

	return v
}

func pathUserID(r *http.Request) (domain.UserID, error) {
	id, err := domain.ParseUserID(r.PathValue("id"))
	if err != nil {
		return 0, serrors.Wrap(serrors.ErrBadRequest, err, "user id must be an integer")
	}

	return id, nil
}

func encodeUser(id domain.UserID, name string) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(int64(id)) })
		e.Field("name", func(e *jx.Encoder) { e.Str(name) })
	})

	return e.Bytes()
}

// GetUser handles GET /v1/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	name, err := h.deps.Users.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)

		return
	}
	if name == "" {
		writeError(w, r, serrors.With(serrors.ErrNotFound, "user %s not found", id))

		return
	}

	writeJSON(w, http.StatusOK, encodeUser(id, name))
}

// SaveUser handles PUT /v1/users/{id}.
func (h *Handler) SaveUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	req, err := h.decodeSaveUser(w, r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	if err := h.deps.Users.SaveUser(r.Context(), domain.User{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	}); err != nil {
		writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeSaveUser(w http.ResponseWriter, r *http.Request) (*SaveUserRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read body")
	}

	var req SaveUserRequest
	if err := req.Decode(jx.DecodeBytes(body)); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid JSON body")
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("could not validate request: %w", err)
		}

		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}

		return nil, serrors.With(serrors.ErrBadRequest, "invalid fields: %s", strings.Join(fields, ", "))
	}

	return &req, nil
}
