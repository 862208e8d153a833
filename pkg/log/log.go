package log

import (
	"context"
	"log/slog"
	"os"

	"github.com/dchouse/nanodash/pkg/types"
)

var (
	defaultLogLevel slog.LevelVar
	defaultLogger   = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     &defaultLogLevel,
	}))
)

func init() {
	defaultLogLevel.Set(slog.LevelInfo)
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger from the context. If no logger is found, it returns the default logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a new context with the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithAttrs returns a new context whose logger includes args on every record.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	return With(ctx, Ctx(ctx).With(args...))
}

// SetDefaultLogLevel changes the level of the default logger at runtime.
func SetDefaultLogLevel(level slog.Level) {
	defaultLogLevel.Set(level)
}

// Series describes a time series for logging. Generated series are always
// marked so they can't be mistaken for sensor data.
func Series(key string, s types.TimeSeries) slog.Attr {
	return slog.Group(key,
		slog.String("name", s.Name),
		slog.Int("samples", s.Len()),
		slog.Bool("synthetic", s.Synthetic),
	)
}
