package leaderboard

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/green-quest/app/eventbus"
	authhandlers "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/handlers"
	leaderboardservice "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/handlers"
	leaderboardqueue "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/queue"
	leaderboardrealtime "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/realtime"
	leaderboarddb "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/queue"
	"github.com/Black-And-White-Club/green-quest/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

// Per-IP limit on manual reloads.
const (
	refreshRatePerSecond rate.Limit = 0.2
	refreshRateBurst                = 2
)

// Module represents the leaderboard module.
type Module struct {
	EventBus           eventbus.EventBus
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	Reconciler         *leaderboardservice.Reconciler
	config             *config.Config
	observability      observability.Observability

	runMu      sync.Mutex
	cancelFunc context.CancelFunc
	closed     bool
}

// NewLeaderboardModule creates a new instance of the Leaderboard module.
// httpRouter may be nil when the module runs without the REST API. authenticate
// guards the manual reload endpoint.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	authenticate func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	recorder, err := obs.Metrics("leaderboard")
	if err != nil {
		return nil, fmt.Errorf("failed to register leaderboard metrics: %w", err)
	}

	view := leaderboardservice.NewView(logger)
	publisher := leaderboardrealtime.NewPublisher(eventBus, logger)
	leaderboardService := leaderboardservice.NewLeaderboardService(
		leaderboarddb.NewRepository(db),
		view,
		publisher,
		logger,
		recorder,
		tracer,
		db,
		cfg.Persistence.Timeout,
	)

	feed := leaderboardrealtime.NewFeed(eventBus, logger)
	reconciler := leaderboardservice.NewReconciler(view, feed, logger, recorder, tracer)

	handlers := leaderboardhandlers.NewLeaderboardHandlers(leaderboardService, logger, tracer, cfg.HTTP.AllowedOrigins)

	leaderboardRouter := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus, eventBus, tracer, recorder, obs.Registry)
	if err := leaderboardRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	if httpRouter != nil {
		limiter := authhandlers.NewIPRateLimiter(refreshRatePerSecond, refreshRateBurst)
		httpRouter.Route("/api/leaderboard", leaderboardhandlers.Routes(handlers,
			authhandlers.RateLimitMiddleware(limiter),
			authenticate,
		))
	}

	return &Module{
		EventBus:           eventBus,
		LeaderboardService: leaderboardService,
		LeaderboardRouter:  leaderboardRouter,
		Reconciler:         reconciler,
		config:             cfg,
		observability:      obs,
	}, nil
}

// QueueRegistration schedules the periodic full reload.
func (m *Module) QueueRegistration() queue.Registration {
	return leaderboardqueue.Register(m.LeaderboardService, m.observability.Logger, m.config.Leaderboard.RefreshInterval)
}

// Run subscribes to scoreboard changes, loads the standings and blocks until ctx
// is cancelled. The subscription opens first so no change is missed between
// the two; the load supersedes anything applied before it.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	if wg != nil {
		defer wg.Done()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !m.setCancel(cancel) {
		logger.InfoContext(ctx, "Leaderboard module closed before start")
		return
	}

	if err := m.Reconciler.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to start leaderboard reconciler", attr.Error(err))
	}

	if _, err := m.LeaderboardService.Refresh(ctx); err != nil {
		logger.ErrorContext(ctx, "Initial leaderboard load failed", attr.Error(err))
	}

	<-ctx.Done()
	if err := m.Reconciler.Stop(); err != nil {
		logger.Error("Failed to stop leaderboard reconciler", attr.Error(err))
	}
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

func (m *Module) setCancel(cancel context.CancelFunc) bool {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.closed {
		return false
	}
	m.cancelFunc = cancel
	return true
}

// Close stops the reconciler and releases every snapshot subscriber.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping leaderboard module")

	m.runMu.Lock()
	m.closed = true
	cancel := m.cancelFunc
	m.runMu.Unlock()
	if cancel != nil {
		cancel()
	}

	if err := m.Reconciler.Stop(); err != nil {
		logger.Error("Failed to stop leaderboard reconciler", attr.Error(err))
	}
	m.LeaderboardService.View().Close()

	logger.Info("Leaderboard module stopped")
	return nil
}
