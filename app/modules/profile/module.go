package profile

import (
	"context"
	"fmt"
	"net/http"

	profileservice "github.com/Black-And-White-Club/green-quest/app/modules/profile/application"
	profilehandlers "github.com/Black-And-White-Club/green-quest/app/modules/profile/infrastructure/handlers"
	profilequeue "github.com/Black-And-White-Club/green-quest/app/modules/profile/infrastructure/queue"
	profiledb "github.com/Black-And-White-Club/green-quest/app/modules/profile/infrastructure/repositories"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability"
	"github.com/Black-And-White-Club/green-quest/app/shared/queue"
	"github.com/Black-And-White-Club/green-quest/config"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the profile module: quiz, rewards and badges.
type Module struct {
	ProfileService profileservice.Service
	config         *config.Config
	observability  observability.Observability
}

// NewProfileModule creates the profile module. Its routes sit behind
// authenticate, which must put the signed-in user on the request context.
func NewProfileModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
	authenticate func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "profile.NewProfileModule called")

	recorder, err := obs.Metrics("profile")
	if err != nil {
		return nil, fmt.Errorf("failed to register profile metrics: %w", err)
	}

	service := profileservice.NewProfileService(
		profiledb.NewRepository(db),
		logger,
		recorder,
		tracer,
		db,
		cfg.Persistence.Timeout,
		cfg.Challenge.QuestionsPerWeek,
	)

	if httpRouter != nil {
		handlers := profilehandlers.NewProfileHandlers(service, logger, tracer)
		httpRouter.Group(profilehandlers.Routes(handlers, authenticate))
	}

	return &Module{
		ProfileService: service,
		config:         cfg,
		observability:  obs,
	}, nil
}

// QueueRegistration schedules the weekly quiz rotation.
func (m *Module) QueueRegistration() queue.Registration {
	return profilequeue.Register(m.ProfileService, m.observability.Logger)
}
