package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nkeys"
)

// EventBus publishes and subscribes to JetStream subjects through watermill.
type EventBus interface {
	message.Publisher
	message.Subscriber
	CreateStream(ctx context.Context, streamName string, subjects ...string) error
}

// Options configures the NATS connection.
type Options struct {
	URL string
	// NKeySeed is an optional user seed ("SU...") for nkey authentication.
	NKeySeed string
}

type eventBus struct {
	publisher      message.Publisher
	subscriber     message.Subscriber
	js             jetstream.JetStream
	natsConn       *nc.Conn
	logger         *slog.Logger
	createdStreams map[string]bool
	streamMutex    sync.Mutex
}

// NewEventBus connects to NATS JetStream and builds the watermill publisher and subscriber.
func NewEventBus(ctx context.Context, opts Options, logger *slog.Logger) (EventBus, error) {
	natsOptions := []nc.Option{nc.RetryOnFailedConnect(true)}
	if opts.NKeySeed != "" {
		authOpt, err := nkeyOption(opts.NKeySeed)
		if err != nil {
			return nil, err
		}
		natsOptions = append(natsOptions, authOpt)
	}

	natsConn, err := nc.Connect(opts.URL, natsOptions...)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to NATS", attr.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		logger.ErrorContext(ctx, "Failed to initialize JetStream", attr.Error(err))
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         opts.URL,
			Marshaler:   marshaler,
			NatsOptions: natsOptions,
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		logger.ErrorContext(ctx, "Failed to create Watermill publisher", attr.Error(err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:         opts.URL,
			Unmarshaler: marshaler,
			NatsOptions: natsOptions,
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		publisher.Close()
		logger.ErrorContext(ctx, "Failed to create Watermill subscriber", attr.Error(err))
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}, nil
}

func nkeyOption(seed string) (nc.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("invalid NATS nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive NATS public key: %w", err)
	}
	return nc.Nkey(pub, kp.Sign), nil
}

func (eb *eventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		eb.logger.Debug("Publishing message",
			attr.String("topic", topic),
			attr.String("message_uuid", msg.UUID),
			attr.String("correlation_id", msg.Metadata.Get("correlation_id")),
		)
	}

	if err := eb.publisher.Publish(topic, messages...); err != nil {
		eb.logger.Error("Failed to publish message", attr.String("topic", topic), attr.Error(err))
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.InfoContext(ctx, "Subscribing to topic", attr.String("topic", topic))

	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}
	return messages, nil
}

// CreateStream creates the stream or adds any missing subjects to an existing one.
func (eb *eventBus) CreateStream(ctx context.Context, streamName string, subjects ...string) error {
	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	if eb.createdStreams[streamName] {
		return nil
	}

	eb.logger.InfoContext(ctx, "Creating stream", attr.String("stream_name", streamName), attr.Any("subjects", subjects))

	stream, err := eb.js.Stream(ctx, streamName)
	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
		_, err = eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: subjects,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to check if stream exists: %w", err)
	default:
		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info: %w", err)
		}
		missing := false
		for _, subject := range subjects {
			if !slices.Contains(info.Config.Subjects, subject) {
				info.Config.Subjects = append(info.Config.Subjects, subject)
				missing = true
			}
		}
		if missing {
			if _, err := eb.js.UpdateStream(ctx, info.Config); err != nil {
				return fmt.Errorf("failed to update stream with new subjects: %w", err)
			}
			eb.logger.InfoContext(ctx, "Stream updated with new subjects", attr.String("stream_name", streamName))
		}
	}

	retryInterval := 100 * time.Millisecond
	for i := 0; i < 5; i++ {
		if _, err = eb.js.Stream(ctx, streamName); err == nil {
			break
		}
		if !errors.Is(err, jetstream.ErrStreamNotFound) {
			return fmt.Errorf("failed to check if stream exists: %w", err)
		}
		eb.logger.WarnContext(ctx, "Stream not yet available, retrying", attr.String("stream_name", streamName), attr.Int("attempt", i+1))
		time.Sleep(retryInterval)
	}
	if err != nil {
		return fmt.Errorf("failed to confirm stream creation after retries: %w", err)
	}

	eb.createdStreams[streamName] = true
	return nil
}

// Close closes all NATS and Watermill resources.
func (eb *eventBus) Close() error {
	if eb.publisher != nil {
		if err := eb.publisher.Close(); err != nil {
			eb.logger.Error("Error closing NATS publisher", attr.Error(err))
		}
	}
	if eb.subscriber != nil {
		if err := eb.subscriber.Close(); err != nil {
			eb.logger.Error("Error closing NATS subscriber", attr.Error(err))
		}
	}
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}
	return nil
}
