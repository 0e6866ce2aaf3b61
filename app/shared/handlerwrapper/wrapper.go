// Package handlerwrapper adapts typed event handlers to watermill handler funcs.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// MetadataTopic names the metadata key the event bus publishes to when a
// handler has no fixed publish topic.
const MetadataTopic = "topic"

// Result is one outgoing message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped decodes the JSON payload into T, calls handler and turns
// its results into outgoing messages. Payloads that fail to decode are logged
// and acked so a poison message cannot block the subscription.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	m metrics.OperationMetrics,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(handlerName)
	}
	if m == nil {
		m = metrics.NewNoop()
	}

	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))
		ctx, span := tracer.Start(ctx, handlerName)
		defer span.End()

		m.RecordOperationAttempt(ctx, handlerName, "handler")
		start := time.Now()
		defer func() {
			m.RecordOperationDuration(ctx, handlerName, "handler", time.Since(start))
		}()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.WarnContext(ctx, "Dropping message with undecodable payload",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_uuid", msg.UUID),
				attr.Error(err),
			)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return nil, fmt.Errorf("%s: %w", handlerName, err)
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			outMsg, err := NewMessage(ctx, r)
			if err != nil {
				span.RecordError(err)
				m.RecordOperationFailure(ctx, handlerName, "handler")
				return nil, fmt.Errorf("%s: %w", handlerName, err)
			}
			out = append(out, outMsg)
		}

		m.RecordOperationSuccess(ctx, handlerName, "handler")
		return out, nil
	}
}

// NewMessage marshals a Result into a watermill message carrying its topic and
// the correlation ID found on ctx.
func NewMessage(ctx context.Context, r Result) (*message.Message, error) {
	if r.Topic == "" {
		return nil, fmt.Errorf("result has no topic")
	}

	data, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", r.Topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetadataTopic, r.Topic)
	for k, v := range r.Metadata {
		msg.Metadata.Set(k, v)
	}
	if id := attr.CorrelationIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	return msg, nil
}
