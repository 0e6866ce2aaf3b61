package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/green-quest/app/eventbus"
	"github.com/Black-And-White-Club/green-quest/app/modules/auth"
	"github.com/Black-And-White-Club/green-quest/app/modules/energy"
	"github.com/Black-And-White-Club/green-quest/app/modules/leaderboard"
	"github.com/Black-And-White-Club/green-quest/app/modules/profile"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/queue"
	"github.com/Black-And-White-Club/green-quest/config"
	"github.com/Black-And-White-Club/green-quest/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Modules holds every feature module.
type Modules struct {
	Auth        *auth.Module
	Leaderboard *leaderboard.Module
	Profile     *profile.Module
	Energy      *energy.Module
}

// App wires config, database, event bus, routers and modules together.
type App struct {
	Config          *config.Config
	Observability   observability.Observability
	DB              *bun.DB
	EventBus        eventbus.EventBus
	WatermillRouter *message.Router
	HTTPRouter      chi.Router
	Modules         Modules

	queue      *queue.Service
	httpServer *http.Server
	wg         sync.WaitGroup
}

// NewApp connects to Postgres and NATS and builds every module. Nothing runs
// until Run is called.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	logger := obs.Logger
	app := &App{Config: cfg, Observability: obs}

	db, err := bundb.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	app.DB = db

	eb, err := eventbus.NewEventBus(ctx, eventbus.Options{URL: cfg.NATS.URL, NKeySeed: cfg.NATS.NKeySeed}, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	app.EventBus = eb

	if err := eventbus.InitializeStreams(ctx, eb); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize streams: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}
	app.WatermillRouter = router
	app.HTTPRouter = newHTTPRouter(cfg, obs)

	if err := app.initializeModules(ctx); err != nil {
		app.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "Application initialized")
	return app, nil
}

func (app *App) initializeModules(ctx context.Context) error {
	cfg, obs := app.Config, app.Observability

	authModule, err := auth.NewModule(ctx, cfg, obs, app.DB, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}

	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, app.DB, app.EventBus, app.WatermillRouter, app.HTTPRouter, authModule.Authenticate())
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	profileModule, err := profile.NewProfileModule(ctx, cfg, obs, app.DB, app.HTTPRouter, authModule.Authenticate())
	if err != nil {
		return fmt.Errorf("failed to initialize profile module: %w", err)
	}

	energyModule, err := energy.NewEnergyModule(ctx, cfg, obs, leaderboardModule.LeaderboardService)
	if err != nil {
		return fmt.Errorf("failed to initialize energy module: %w", err)
	}

	app.Modules = Modules{
		Auth:        authModule,
		Leaderboard: leaderboardModule,
		Profile:     profileModule,
		Energy:      energyModule,
	}
	return nil
}

// Close releases everything in reverse order of construction. It is safe on a
// partly built App.
func (app *App) Close() error {
	logger := app.Observability.Logger
	var errs []error

	if app.httpServer != nil {
		if err := app.httpServer.Shutdown(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}
	if app.queue != nil {
		if err := app.queue.Stop(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	if app.Modules.Leaderboard != nil {
		if err := app.Modules.Leaderboard.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.WatermillRouter != nil {
		if err := app.WatermillRouter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("watermill router: %w", err))
		}
	}

	app.wg.Wait()

	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.Error("Shutdown finished with errors", attr.Error(err))
	} else {
		logger.Info("Application shut down")
	}
	return err
}
