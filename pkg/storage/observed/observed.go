// Package observed wraps a storage.UserStorage with OpenTelemetry metrics and
// spans and debug logging. Results and errors pass through untouched.
package observed

import (
	"context"
	"fmt"
	"time"
	"userservice/pkg/domain"
	"userservice/pkg/logger"
	"userservice/pkg/metrics"
	"userservice/pkg/storage"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DurationMetric is the histogram every call is recorded in.
	DurationMetric = "userservice.storage.duration"

	OperationFindUser = "find_user"
	OperationSaveUser = "save_user"

	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Storage is the instrumented decorator.
type Storage struct {
	inner    storage.UserStorage
	tracer   trace.Tracer
	duration metric.Float64Histogram
}

var _ storage.UserStorage = (*Storage)(nil)

func (s *Storage) FindUser(ctx context.Context, id domain.UserID) (string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.FindUser", trace.WithAttributes(
		attribute.Int64("user.id", int64(id)),
	))
	defer span.End()

	start := time.Now()
	name, err := s.inner.FindUser(ctx, id)

	outcome := OutcomeOK
	if name == "" {
		outcome = OutcomeEmpty
	}
	s.record(ctx, span, OperationFindUser, outcome, start, err)
	logger.Debug(ctx, "storage lookup",
		zap.Int64("userID", int64(id)),
		zap.Bool("found", name != ""),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))

	return name, err //nolint: wrapcheck
}

func (s *Storage) SaveUser(ctx context.Context, user domain.User) error {
	ctx, span := s.tracer.Start(ctx, "storage.SaveUser", trace.WithAttributes(
		attribute.Int64("user.id", int64(user.ID)),
	))
	defer span.End()

	start := time.Now()
	err := s.inner.SaveUser(ctx, user)

	s.record(ctx, span, OperationSaveUser, OutcomeOK, start, err)
	logger.Debug(ctx, "storage save",
		zap.Int64("userID", int64(user.ID)),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))

	return err //nolint: wrapcheck
}

func (s *Storage) record(ctx context.Context, span trace.Span, op, outcome string, start time.Time, err error) {
	if err != nil {
		outcome = OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	s.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

// New instruments inner with instruments created from meter and spans from tracer.
func New(inner storage.UserStorage, meter metric.Meter, tracer trace.Tracer) (*Storage, error) {
	duration, err := meter.Float64Histogram(DurationMetric,
		metric.WithDescription("Duration of user storage calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	return &Storage{
		inner:    inner,
		tracer:   tracer,
		duration: duration,
	}, nil
}
