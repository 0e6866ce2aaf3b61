package leaderboardrouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	leaderboardhandlers "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/handlers"
	"github.com/Black-And-White-Club/green-quest/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	opmetrics "github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	wmmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// LeaderboardRouter binds leaderboard event handlers to the watermill router.
type LeaderboardRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	publisher      message.Publisher
	tracer         trace.Tracer
	opMetrics      opmetrics.OperationMetrics
	metricsBuilder *wmmetrics.PrometheusMetricsBuilder
}

// NewLeaderboardRouter creates a new instance of the router. Router metrics are
// skipped when no registry is given or APP_ENV=test.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
	opMetrics opmetrics.OperationMetrics,
	prometheusRegistry *prometheus.Registry,
) *LeaderboardRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *wmmetrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := wmmetrics.NewPrometheusMetricsBuilder(prometheusRegistry, "greenquest", "leaderboard")
		metricsBuilder = &builder
	}

	return &LeaderboardRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		opMetrics:      opMetrics,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds middleware and registers the handlers.
func (r *LeaderboardRouter) Configure(routerCtx context.Context, handlers leaderboardhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Leaderboard")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
		}.Middleware,
	)

	return r.RegisterHandlers(routerCtx, handlers)
}

// RegisterHandlers binds event topics to handler logic. Outgoing messages are
// published to the topic in their metadata.
func (r *LeaderboardRouter) RegisterHandlers(ctx context.Context, handlers leaderboardhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Leaderboard Event Handlers")

	eventsToHandlers := map[string]message.HandlerFunc{
		leaderboarddomain.TownUsageSubmittedV1: handlerwrapper.WrapTransformingTyped(
			"leaderboard."+leaderboarddomain.TownUsageSubmittedV1,
			r.logger,
			r.tracer,
			r.opMetrics,
			handlers.HandleTownUsageSubmitted,
		),
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := "leaderboard." + topic
		r.Router.AddHandler(
			handlerName,
			topic,
			r.subscriber,
			"",
			nil,
			r.publishing(ctx, handlerName, handlerFunc),
		)
	}
	return nil
}

func (r *LeaderboardRouter) publishing(ctx context.Context, handlerName string, handlerFunc message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		messages, err := handlerFunc(msg)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error processing message",
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			return nil, err
		}

		for _, m := range messages {
			topic := m.Metadata.Get(handlerwrapper.MetadataTopic)
			if topic == "" {
				r.logger.Error("Handler produced a message without a topic, dropping it",
					attr.String("handler", handlerName),
					attr.String("msg_uuid", m.UUID),
				)
				continue
			}
			if err := r.publisher.Publish(topic, m); err != nil {
				return nil, fmt.Errorf("failed to publish to %s: %w", topic, err)
			}
		}
		return nil, nil
	}
}

// Close stops the router.
func (r *LeaderboardRouter) Close() error {
	return r.Router.Close()
}
