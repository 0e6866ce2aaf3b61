package leaderboardrealtime

import (
	"context"
	"fmt"
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Publisher emits scoreboard change events on ScoreboardChangesV1.
type Publisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

var _ leaderboardservice.ChangePublisher = (*Publisher)(nil)

func NewPublisher(publisher message.Publisher, logger *slog.Logger) *Publisher {
	return &Publisher{publisher: publisher, logger: logger}
}

func (p *Publisher) PublishChange(ctx context.Context, ev leaderboarddomain.ChangeEvent) error {
	payload, err := ev.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", ev.Kind, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(leaderboarddomain.EventMetadataKey, string(ev.Kind))
	if id := attr.CorrelationIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	msg.SetContext(ctx)

	if err := p.publisher.Publish(leaderboarddomain.ScoreboardChangesV1, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", ev.Kind, err)
	}

	p.logger.DebugContext(ctx, "Published scoreboard change",
		attr.ExtractCorrelationID(ctx),
		attr.String("event", string(ev.Kind)),
		attr.String("message_uuid", msg.UUID),
	)
	return nil
}
