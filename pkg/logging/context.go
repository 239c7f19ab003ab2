package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithField adds a single string field to the logger in the context.
func WithField(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithDialect tags the context logger with the config file dialect.
func WithDialect(ctx context.Context, dialect string) context.Context {
	return WithField(ctx, "dialect", dialect)
}

// WithFile tags the context logger with the file being processed.
func WithFile(ctx context.Context, path string) context.Context {
	return WithField(ctx, "file", path)
}

// WithImage tags the context logger with the container image.
func WithImage(ctx context.Context, image string) context.Context {
	return WithField(ctx, "image", image)
}
