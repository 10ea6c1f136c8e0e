package storage

import (
	"context"
	"userservice/pkg/domain"
)

// UserStorage is the user data access contract.
//
//go:generate mockgen -package mockstorage -source=user.go -destination=mock/mockstorage.go *
type UserStorage interface {
	// FindUser returns the name of the user stored under id. A missing user is
	// reported as an empty string and a nil error; errors are reserved for
	// backend failures.
	FindUser(ctx context.Context, id domain.UserID) (string, error)
	// SaveUser inserts the user or replaces the stored one with the same ID.
	SaveUser(ctx context.Context, user domain.User) error
}
