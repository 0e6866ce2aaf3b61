// Package attr holds the slog attribute helpers shared by every module.
package attr

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const correlationIDKey ctxKey = "correlation_id"

// CorrelationIDKey is the log key used for correlation IDs.
const CorrelationIDKey = "correlation_id"

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

// Error renders err under the "error" key. A nil error renders as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// WithCorrelationID stores a correlation ID on the context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	if correlationID == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationIDFromContext returns the correlation ID stored on ctx, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(correlationIDKey).(string); ok {
		return v
	}
	return ""
}

// ExtractCorrelationID returns the correlation ID on ctx as a log attribute.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String(CorrelationIDKey, CorrelationIDFromContext(ctx))
}
