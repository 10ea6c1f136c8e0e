// Package worker runs the background jobs emitted by the storage layer.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"userservice/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// DefaultMaxWorkers is used when Options.MaxWorkers is not positive.
const DefaultMaxWorkers = 10

type Options struct {
	// MaxWorkers bounds how many jobs of the default queue run at once.
	MaxWorkers int
}

// Start registers the workers on a new river client and starts it. The
// caller stops the client on shutdown.
func Start(
	ctx context.Context,
	dbPool *pgxpool.Pool,
	cache Warmer,
	opts Options,
) (*river.Client[pgx.Tx], error) {
	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewCacheWarmWorker(cache))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
