package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Logger returns base tagged with the request id found in ctx.
func Logger(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	if reqID := RequestID(ctx); reqID != "" {
		return base.With().Str("req_id", reqID).Logger()
	}
	return base
}

// Time logs the duration of an operation when the returned func is deferred.
// The logger is taken from ctx (zerolog.Ctx).
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		log := Logger(ctx, *zerolog.Ctx(ctx))
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Warn().Str("op", name).Int64("dur_ms", dur.Milliseconds()).Err(*errp).Msg("op failed")
			return
		}
		log.Debug().Str("op", name).Int64("dur_ms", dur.Milliseconds()).Msg("op done")
	}
}
