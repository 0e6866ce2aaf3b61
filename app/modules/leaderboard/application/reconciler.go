package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ChangeHandler receives raw change events in delivery order. kind is the value
// of the event metadata (INSERT, UPDATE or DELETE).
type ChangeHandler func(ctx context.Context, kind string, payload []byte)

// Subscription is an open feed subscription.
type Subscription interface {
	Unsubscribe() error
}

// Feed delivers scoreboard change events. Implementations must invoke the handler
// sequentially, one event at a time.
type Feed interface {
	Subscribe(ctx context.Context, channel string, handler ChangeHandler) (Subscription, error)
}

// Reconciler applies scoreboard change events to a View without a full reload.
type Reconciler struct {
	view    *View
	feed    Feed
	channel string
	logger  *slog.Logger
	metrics metrics.FeedMetrics
	tracer  trace.Tracer

	mu  sync.Mutex
	sub Subscription
}

func NewReconciler(
	view *View,
	feed Feed,
	logger *slog.Logger,
	feedMetrics metrics.FeedMetrics,
	tracer trace.Tracer,
) *Reconciler {
	return &Reconciler{
		view:    view,
		feed:    feed,
		channel: leaderboarddomain.ScoreboardChangesV1,
		logger:  logger,
		metrics: feedMetrics,
		tracer:  tracer,
	}
}

// Start opens the feed subscription. It is a no-op while a subscription is open.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		r.logger.DebugContext(ctx, "Reconciler already subscribed", attr.String("channel", r.channel))
		return nil
	}

	sub, err := r.feed.Subscribe(ctx, r.channel, r.Handle)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	r.sub = sub

	r.logger.InfoContext(ctx, "Reconciler subscribed", attr.String("channel", r.channel))
	return nil
}

// Stop closes the subscription if one is open.
func (r *Reconciler) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub == nil {
		return nil
	}
	err := r.sub.Unsubscribe()
	r.sub = nil
	if err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", r.channel, err)
	}
	r.logger.Info("Reconciler unsubscribed", attr.String("channel", r.channel))
	return nil
}

// Running reports whether a subscription is open.
func (r *Reconciler) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sub != nil
}

// Handle decodes one raw event and applies it. Malformed events are logged and
// dropped with the view unchanged.
func (r *Reconciler) Handle(ctx context.Context, kind string, payload []byte) {
	ctx, span := r.tracer.Start(ctx, "leaderboard.Reconcile", trace.WithAttributes(
		attribute.String("event", kind),
	))
	defer span.End()

	ev, err := leaderboarddomain.DecodeChangeEvent(kind, payload)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, leaderboarddomain.ErrUnknownEventKind) {
			reason = "unknown_kind"
		}
		r.logger.WarnContext(ctx, "Dropping malformed scoreboard event",
			attr.ExtractCorrelationID(ctx),
			attr.String("event", kind),
			attr.Error(err),
		)
		r.metrics.RecordEventDropped(ctx, reason)
		return
	}

	snap := r.Apply(ev)
	r.metrics.RecordEventApplied(ctx, string(ev.Kind))
	r.logger.DebugContext(ctx, "Applied scoreboard event",
		attr.String("event", kind),
		attr.Int("towns", snap.Len()),
		attr.Any("version", snap.Version()),
	)
}

// Apply routes a validated event to the view.
func (r *Reconciler) Apply(ev leaderboarddomain.ChangeEvent) Snapshot {
	switch ev.Kind {
	case leaderboarddomain.ChangeInsert:
		return r.view.ApplyInsert(*ev.Record)
	case leaderboarddomain.ChangeUpdate:
		return r.view.ApplyUpdate(*ev.Record)
	case leaderboarddomain.ChangeDelete:
		return r.view.ApplyDelete(ev.OldRecord.ID)
	default:
		return r.view.Snapshot()
	}
}
