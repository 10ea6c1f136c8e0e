package users

import (
	"context"
	"userservice/pkg/domain"
)

// Service is the user facade exposed to transports and workers.
//
//go:generate mockgen -package mockusers -source=interface.go -destination=mock/mockusers.go *
type Service interface {
	// GetUserByID returns whatever the storage lookup returns for id.
	GetUserByID(ctx context.Context, id domain.UserID) (string, error)
	// SaveUser hands user to storage for persistence.
	SaveUser(ctx context.Context, user domain.User) error
}
