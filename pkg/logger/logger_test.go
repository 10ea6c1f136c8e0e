package logger_test

import (
	"context"
	"testing"
	"userservice/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		wantDebug   bool
		wantErr     bool
	}{
		{name: "development default level", environment: logger.DevelopmentEnvironment, wantDebug: true},
		{name: "production default level", environment: logger.ProductionEnvironment, wantDebug: false},
		{name: "production forced debug", environment: logger.ProductionEnvironment, level: "debug", wantDebug: true},
		{name: "development raised to warn", environment: logger.DevelopmentEnvironment, level: "warn", wantDebug: false},
		{name: "invalid level", environment: logger.DevelopmentEnvironment, level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logger.Setup(tt.environment, tt.level)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantDebug, logger.IsDebug(context.Background()))
		})
	}
}

func TestGet_FallsBackToDefault(t *testing.T) {
	require.NoError(t, logger.Setup(logger.DevelopmentEnvironment, ""))

	require.NotNil(t, logger.Get(context.Background()))
}

func TestWithLogger(t *testing.T) {
	custom := zap.NewExample()
	ctx := logger.WithLogger(context.Background(), custom)

	require.Same(t, custom, logger.Get(ctx))
}

func TestWithFields_AttachesFieldsToEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))
	ctx = logger.WithFields(ctx, zap.String("requestID", "abc"), zap.Int64("userID", 42))

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	entries := logs.All()
	require.Len(t, entries, 4)
	for _, e := range entries {
		fields := e.ContextMap()
		require.Equal(t, "abc", fields["requestID"])
		require.EqualValues(t, 42, fields["userID"])
	}
	require.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}
