package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/queue"
)

// Run starts the event router, the modules, the job queue and the HTTP server,
// then blocks until ctx is cancelled or the server fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		if err := app.WatermillRouter.Run(ctx); err != nil {
			logger.ErrorContext(ctx, "Watermill router stopped", attr.Error(err))
		}
	}()
	<-app.WatermillRouter.Running()

	app.wg.Add(1)
	go app.Modules.Leaderboard.Run(ctx, &app.wg)

	if err := app.startQueue(ctx); err != nil {
		return err
	}

	app.httpServer = &http.Server{
		Addr:    app.Config.HTTP.Addr,
		Handler: app.HTTPRouter,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("addr", app.Config.HTTP.Addr))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}
}

func (app *App) startQueue(ctx context.Context) error {
	recorder, err := app.Observability.Metrics("queue")
	if err != nil {
		return fmt.Errorf("failed to register queue metrics: %w", err)
	}

	svc, err := queue.NewService(ctx, app.Config.Postgres.DSN, app.Observability.Logger, recorder,
		app.Modules.Leaderboard.QueueRegistration(),
		app.Modules.Profile.QueueRegistration(),
		app.Modules.Energy.QueueRegistration(),
	)
	if err != nil {
		return fmt.Errorf("failed to create queue service: %w", err)
	}
	app.queue = svc
	return svc.Start(ctx)
}
