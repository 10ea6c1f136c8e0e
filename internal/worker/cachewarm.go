package worker

import (
	"context"
	"fmt"
	"time"
	"userservice/pkg/domain"
	"userservice/pkg/logger"
	"userservice/pkg/storage"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// CacheWarmTimeout bounds a single warm-up.
const CacheWarmTimeout = 30 * time.Second

// Warmer replaces the cached entry of a user with a fresh read.
// It is satisfied by *rediscache.Storage.
type Warmer interface {
	Warm(ctx context.Context, id domain.UserID) error
}

// CacheWarmWorker handles UserSaved jobs by rewriting the saved user's cache
// entry from the database.
type CacheWarmWorker struct {
	river.WorkerDefaults[storage.UserSavedArgs]

	cache Warmer
}

func NewCacheWarmWorker(cache Warmer) *CacheWarmWorker {
	return &CacheWarmWorker{cache: cache}
}

func (w *CacheWarmWorker) Timeout(*river.Job[storage.UserSavedArgs]) time.Duration {
	return CacheWarmTimeout
}

func (w *CacheWarmWorker) Work(ctx context.Context, job *river.Job[storage.UserSavedArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID), zap.Stringer("userID", job.Args.UserID))

	if err := w.cache.Warm(ctx, job.Args.UserID); err != nil {
		logger.Error(ctx, "error in warming user cache", zap.Error(err))

		return fmt.Errorf("could not warm user cache: %w", err)
	}

	logger.Debug(ctx, "user cache warmed")

	return nil
}
