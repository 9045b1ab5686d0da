package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext returns the logger carried by ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent tags every event logged through ctx with component.
func WithComponent(ctx context.Context, component string) context.Context {
	return withField(ctx, "component", component)
}

// WithWindowID tags every event logged through ctx with the window id.
func WithWindowID(ctx context.Context, windowID string) context.Context {
	return withField(ctx, "window_id", windowID)
}

// WithCommandID tags every event logged through ctx with the command correlation id.
func WithCommandID(ctx context.Context, commandID string) context.Context {
	return withField(ctx, "command_id", commandID)
}

func withField(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With().Str(key, value).Logger())
}
