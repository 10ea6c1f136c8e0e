// Package users implements the user service on top of a storage.UserStorage.
//
// The service is a thin facade: each operation is a single call to the
// injected storage, with arguments forwarded and results returned untouched.
// Caching, validation and error classification belong to the storage
// decorators and to the transports.
package users

import (
	"context"
	"userservice/pkg/domain"
	"userservice/pkg/storage"
)

type service struct {
	dao storage.UserStorage
}

// GetUserByID forwards to FindUser. Empty results and errors are returned as is.
func (s service) GetUserByID(ctx context.Context, id domain.UserID) (string, error) {
	return s.dao.FindUser(ctx, id) //nolint: wrapcheck
}

// SaveUser forwards to storage SaveUser.
func (s service) SaveUser(ctx context.Context, user domain.User) error {
	return s.dao.SaveUser(ctx, user) //nolint: wrapcheck
}

// New returns a Service backed by dao. The dao is shared, not owned: closing
// it remains the caller's job.
func New(dao storage.UserStorage) Service {
	return &service{dao: dao}
}
