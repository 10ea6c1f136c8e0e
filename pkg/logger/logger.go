// Package logger provides context-scoped structured logging on top of zap.
package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DevelopmentEnvironment selects the console encoder with colored levels.
	DevelopmentEnvironment = "development"
	// ProductionEnvironment selects the JSON encoder with sampling.
	ProductionEnvironment = "production"
)

var defaultLogger = zap.NewNop() //nolint: gochecknoglobals

// Setup replaces the default logger. An empty level keeps zap's default for
// the environment (debug in development, info in production).
func Setup(environment, level string) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if environment == ProductionEnvironment {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return fmt.Errorf("could not parse log level: %w", err)
		}
		cfg.Level = lvl
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("could not build logger: %w", err)
	}
	defaultLogger = l

	return nil
}

type key struct{}

// Get returns the logger stored in ctx, or the default logger.
func Get(ctx context.Context) *zap.Logger {
	if logger, _ := ctx.Value(key{}).(*zap.Logger); logger != nil {
		return logger
	}

	return defaultLogger
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// WithFields returns a context whose logger carries fields on every entry.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// IsDebug reports whether debug entries from ctx's logger would be written.
func IsDebug(ctx context.Context) bool {
	return Get(ctx).Core().Enabled(zap.DebugLevel)
}

func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}
