package storage

import (
	"context"
	"userservice/pkg/domain"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs. When the backend is inside a
// transaction the job becomes visible only once that transaction commits.
type JobStorage interface {
	// AddJob enqueues a job and reports whether it was inserted (false means
	// it was skipped as a duplicate of an existing unique job).
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}

// UserSavedArgs is emitted in the same transaction as every user save.
type UserSavedArgs struct {
	UserID domain.UserID `json:"userId"`
}

// Kind implements river.JobArgs.
func (UserSavedArgs) Kind() string { return "UserSaved" }

// InsertOpts limits retries of the cache warm-up.
func (UserSavedArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 3,
	}
}
