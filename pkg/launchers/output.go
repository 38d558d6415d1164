package launchers

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type logKey struct{}

func logger(ctx context.Context) *zerolog.Logger {
	value := ctx.Value(logKey{})
	if value == nil {
		return &log.Logger
	}

	return value.(*zerolog.Logger)
}

// WithLogger attaches the given logger to the context
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, logger)
}
