package requestctx

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ctxKey struct{}

// WithCorrelationID returns a context carrying id and a logger tagged with it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, ctxKey{}, id)
	return log.Logger.With().Str("correlation_id", id).Logger().WithContext(ctx)
}

// CorrelationID fetches the correlation ID from the context, if any.
func CorrelationID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKey{}).(string); ok {
		return s
	}
	return ""
}

// Logger returns the request-scoped logger, or the global one outside a request.
func Logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
