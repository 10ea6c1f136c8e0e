package observed_test

import (
	"context"
	"errors"
	"testing"
	"userservice/pkg/domain"
	mockstorage "userservice/pkg/storage/mock"
	"userservice/pkg/storage/observed"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
)

func newTestStorage(t *testing.T) (
	*mockstorage.MockUserStorage,
	*observed.Storage,
	*sdkmetric.ManualReader,
	*tracetest.SpanRecorder,
) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	inner := mockstorage.NewMockUserStorage(gomock.NewController(t))

	s, err := observed.New(inner, mp.Meter("test"), tp.Tracer("test"))
	require.NoError(t, err)

	return inner, s, reader, spans
}

func userIDAttr(t *testing.T, span sdktrace.ReadOnlySpan) int64 {
	t.Helper()

	for _, kv := range span.Attributes() {
		if kv.Key == "user.id" {
			return kv.Value.AsInt64()
		}
	}
	t.Fatalf("span %s has no user.id attribute", span.Name())

	return 0
}

// counts returns the number of recorded calls per operation/outcome pair.
func counts(t *testing.T, reader *sdkmetric.ManualReader) map[[2]string]uint64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[[2]string]uint64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != observed.DurationMetric {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			for _, dp := range hist.DataPoints {
				op, _ := dp.Attributes.Value(attribute.Key("operation"))
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				out[[2]string{op.AsString(), outcome.AsString()}] += dp.Count
			}
		}
	}

	return out
}

func TestStorage_FindUser_PassesThroughAndRecords(t *testing.T) {
	inner, s, reader, _ := newTestStorage(t)
	ctx := context.Background()
	lookupErr := errors.New("timeout")

	gomock.InOrder(
		inner.EXPECT().FindUser(gomock.Any(), domain.UserID(42)).Return("Alice", nil),
		inner.EXPECT().FindUser(gomock.Any(), domain.UserID(43)).Return("", nil),
		inner.EXPECT().FindUser(gomock.Any(), domain.UserID(44)).Return("", lookupErr),
	)

	name, err := s.FindUser(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "Alice", name)

	name, err = s.FindUser(ctx, 43)
	require.NoError(t, err)
	require.Empty(t, name)

	_, err = s.FindUser(ctx, 44)
	require.Same(t, lookupErr, err)

	require.Equal(t, map[[2]string]uint64{
		{observed.OperationFindUser, observed.OutcomeOK}:    1,
		{observed.OperationFindUser, observed.OutcomeEmpty}: 1,
		{observed.OperationFindUser, observed.OutcomeError}: 1,
	}, counts(t, reader))
}

func TestStorage_SaveUser_PassesThroughAndRecords(t *testing.T) {
	inner, s, reader, _ := newTestStorage(t)
	ctx := context.Background()
	u := domain.User{ID: 1, Name: "Bob"}
	saveErr := errors.New("conflict")

	inner.EXPECT().SaveUser(gomock.Any(), u).Return(nil)
	inner.EXPECT().SaveUser(gomock.Any(), u).Return(saveErr)

	require.NoError(t, s.SaveUser(ctx, u))
	require.Same(t, saveErr, s.SaveUser(ctx, u))

	require.Equal(t, map[[2]string]uint64{
		{observed.OperationSaveUser, observed.OutcomeOK}:    1,
		{observed.OperationSaveUser, observed.OutcomeError}: 1,
	}, counts(t, reader))
}

func TestStorage_FindUser_Spans(t *testing.T) {
	inner, s, _, spans := newTestStorage(t)
	ctx := context.Background()
	lookupErr := errors.New("timeout")

	gomock.InOrder(
		inner.EXPECT().FindUser(gomock.Any(), domain.UserID(42)).Return("Alice", nil),
		inner.EXPECT().FindUser(gomock.Any(), domain.UserID(-3)).Return("", lookupErr),
	)

	_, err := s.FindUser(ctx, 42)
	require.NoError(t, err)
	_, err = s.FindUser(ctx, -3)
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 2)

	require.Equal(t, "storage.FindUser", ended[0].Name())
	require.Equal(t, int64(42), userIDAttr(t, ended[0]))
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Empty(t, ended[0].Events())

	require.Equal(t, "storage.FindUser", ended[1].Name())
	require.Equal(t, int64(-3), userIDAttr(t, ended[1]))
	require.Equal(t, codes.Error, ended[1].Status().Code)
	require.Equal(t, "timeout", ended[1].Status().Description)
	require.Len(t, ended[1].Events(), 1)
	require.Equal(t, "exception", ended[1].Events()[0].Name)
}

func TestStorage_SaveUser_Spans(t *testing.T) {
	inner, s, _, spans := newTestStorage(t)
	ctx := context.Background()
	u := domain.User{ID: 9, Name: "Bob"}

	inner.EXPECT().SaveUser(gomock.Any(), u).Return(nil)
	inner.EXPECT().SaveUser(gomock.Any(), u).Return(errors.New("conflict"))

	require.NoError(t, s.SaveUser(ctx, u))
	require.Error(t, s.SaveUser(ctx, u))

	ended := spans.Ended()
	require.Len(t, ended, 2)
	for _, span := range ended {
		require.Equal(t, "storage.SaveUser", span.Name())
		require.Equal(t, int64(9), userIDAttr(t, span))
	}
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, codes.Error, ended[1].Status().Code)
}

func TestStorage_InnerSeesSpanContext(t *testing.T) {
	inner, s, _, spans := newTestStorage(t)

	inner.EXPECT().FindUser(gomock.Any(), domain.UserID(1)).
		DoAndReturn(func(ctx context.Context, _ domain.UserID) (string, error) {
			require.True(t, trace.SpanContextFromContext(ctx).IsValid())

			return "Ann", nil
		})

	_, err := s.FindUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, spans.Ended(), 1)
}
