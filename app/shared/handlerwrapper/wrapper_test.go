package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
)

type pingPayload struct {
	Town string `json:"town"`
}

func TestWrapTransformingTyped(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	tests := []struct {
		name      string
		payload   []byte
		handler   func(context.Context, *pingPayload) ([]Result, error)
		wantCalls int
		wantOut   int
		wantErr   bool
	}{
		{
			name:    "decodes payload and emits results",
			payload: []byte(`{"town":"Bedok"}`),
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return []Result{{
					Topic:    "scoreboard.changes.v1",
					Payload:  p,
					Metadata: map[string]string{"event": "UPDATE"},
				}}, nil
			},
			wantCalls: 1,
			wantOut:   1,
		},
		{
			name:    "undecodable payload is dropped",
			payload: []byte(`{not json`),
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return nil, nil
			},
			wantCalls: 0,
		},
		{
			name:    "handler error is returned for redelivery",
			payload: []byte(`{"town":"Bedok"}`),
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return nil, errors.New("db down")
			},
			wantCalls: 1,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			wrapped := WrapTransformingTyped("test.handler", logger, tracer, nil,
				func(ctx context.Context, p *pingPayload) ([]Result, error) {
					calls++
					return tt.handler(ctx, p)
				})

			msg := message.NewMessage(watermill.NewUUID(), tt.payload)
			out, err := wrapped(msg)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, out, tt.wantOut)
		})
	}
}

func TestWrapTransformingTyped_PropagatesCorrelationID(t *testing.T) {
	var seen string
	wrapped := WrapTransformingTyped("test.handler", nil, nil, nil,
		func(ctx context.Context, p *pingPayload) ([]Result, error) {
			seen = attr.CorrelationIDFromContext(ctx)
			return []Result{{Topic: "out.v1", Payload: p}}, nil
		})

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"town":"Yishun"}`))
	middleware.SetCorrelationID("corr-1", msg)

	out, err := wrapped(msg)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "corr-1", seen)
	assert.Equal(t, "corr-1", middleware.MessageCorrelationID(out[0]))
	assert.Equal(t, "out.v1", out[0].Metadata.Get(MetadataTopic))

	var decoded pingPayload
	require.NoError(t, json.Unmarshal(out[0].Payload, &decoded))
	assert.Equal(t, "Yishun", decoded.Town)
}

func TestNewMessage_RequiresTopic(t *testing.T) {
	_, err := NewMessage(context.Background(), Result{Payload: 1})
	assert.Error(t, err)
}
