package v1handler

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"
	"userservice/internal/config"
	"userservice/pkg/logger"
	"userservice/pkg/serrors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SecHandlerOptions configures bearer authentication.
type SecHandlerOptions struct {
	// PublicKey is a PEM encoded RSA public key. Empty disables authentication.
	PublicKey string
}

func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

// SecHandler verifies RS256 bearer tokens and stores their subject in the
// request context.
type SecHandler struct {
	key *rsa.PublicKey
}

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	if opts == nil || opts.PublicKey == "" {
		return &SecHandler{}, nil
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return &SecHandler{key: key}, nil
}

// Enabled reports whether requests are authenticated.
func (s *SecHandler) Enabled() bool { return s.key != nil }

type subjectKey struct{}

// GetSubjectFromContext returns the authenticated subject, or "" when
// authentication is disabled.
func GetSubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey{}).(string)

	return sub
}

// Authenticate validates token and returns its subject.
func (s *SecHandler) Authenticate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}
	if claims.Subject == "" {
		return "", serrors.With(serrors.ErrUnauthorized, "token has no subject")
	}

	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token. It is a no-op
// when authentication is disabled.
func (s *SecHandler) Middleware(next http.Handler) http.Handler {
	if !s.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, r, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

			return
		}

		sub, err := s.Authenticate(raw)
		if err != nil {
			logger.Debug(r.Context(), "rejected bearer token", zap.Error(err))
			writeError(w, r, err)

			return
		}

		ctx := context.WithValue(r.Context(), subjectKey{}, sub)
		ctx = logger.WithFields(ctx, zap.String("subject", sub))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
