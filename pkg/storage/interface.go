// Package storage defines the persistence contracts the user service depends
// on. Backends (PostgreSQL) and decorators (Redis cache, metrics) live in the
// sub-packages and all satisfy UserStorage.
package storage

import "context"

// AllStorage groups every capability a transactional backend exposes.
type AllStorage interface {
	UserStorage
	JobStorage
}

// TxStorage is a storage handle bound to an open transaction. It must not be
// used after Commit or Rollback.
type TxStorage interface {
	AllStorage

	// Commit persists all changes made through this handle.
	Commit() error
	// Rollback discards all changes made through this handle.
	Rollback() error
}

// Storage is the root, non-transactional storage handle.
type Storage interface {
	AllStorage

	// Close releases the underlying connection pool.
	Close() error

	// Begin opens a transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx runs cb inside a transaction, committing when cb returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
