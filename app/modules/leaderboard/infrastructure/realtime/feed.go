// Package leaderboardrealtime carries scoreboard change events over the event bus.
package leaderboardrealtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Feed delivers change events from a watermill subscriber to a single handler,
// one message at a time.
type Feed struct {
	subscriber message.Subscriber
	logger     *slog.Logger
}

var _ leaderboardservice.Feed = (*Feed)(nil)

func NewFeed(subscriber message.Subscriber, logger *slog.Logger) *Feed {
	return &Feed{subscriber: subscriber, logger: logger}
}

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Unsubscribe stops delivery and waits for the in-flight handler call to return.
func (s *subscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

// Subscribe starts consuming channel. The subscription outlives ctx cancellation
// of the caller's request scope; only Unsubscribe ends it.
func (f *Feed) Subscribe(ctx context.Context, channel string, handler leaderboardservice.ChangeHandler) (leaderboardservice.Subscription, error) {
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	messages, err := f.subscriber.Subscribe(subCtx, channel)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		for msg := range messages {
			f.deliver(subCtx, msg, handler)
		}
		f.logger.Debug("Feed delivery loop stopped", attr.String("channel", channel))
	}()

	return sub, nil
}

func (f *Feed) deliver(ctx context.Context, msg *message.Message, handler leaderboardservice.ChangeHandler) {
	defer msg.Ack()

	msgCtx := attr.WithCorrelationID(ctx, middleware.MessageCorrelationID(msg))
	defer func() {
		if r := recover(); r != nil {
			f.logger.ErrorContext(msgCtx, "Recovered panic while applying change event",
				attr.ExtractCorrelationID(msgCtx),
				attr.String("message_uuid", msg.UUID),
				attr.Any("panic", r),
			)
		}
	}()

	handler(msgCtx, msg.Metadata.Get(leaderboarddomain.EventMetadataKey), msg.Payload)
}
