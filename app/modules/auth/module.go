package auth

import (
	"context"
	"net/http"

	authservice "github.com/Black-And-White-Club/green-quest/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/jwt"
	authdb "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/repositories"
	profiledb "github.com/Black-And-White-Club/green-quest/app/modules/profile/infrastructure/repositories"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability"
	"github.com/Black-And-White-Club/green-quest/config"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Sign-up and sign-in are limited per client IP.
const (
	rateLimitPerSecond = 5
	rateLimitBurst     = 10
)

// Module represents the auth module.
type Module struct {
	service      authservice.Service
	handlers     authhandlers.Handlers
	authenticate func(http.Handler) http.Handler
}

// NewModule creates the auth module and mounts /api/auth on httpRouter when
// one is given.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "Initializing auth module")

	service := authservice.NewService(
		authdb.NewRepository(db),
		profiledb.NewRepository(db),
		authjwt.NewProvider(cfg.JWT.Secret),
		db,
		authservice.Config{
			TokenTTL: cfg.JWT.DefaultTTL,
			Timeout:  cfg.Persistence.Timeout,
		},
		logger,
		tracer,
	)

	handlers := authhandlers.NewAuthHandlers(service, logger, tracer)
	authenticate := authhandlers.BearerAuth(service)

	if httpRouter != nil {
		limiter := authhandlers.NewIPRateLimiter(rateLimitPerSecond, rateLimitBurst)
		httpRouter.Route("/api/auth", func(r chi.Router) {
			r.Use(authhandlers.RateLimitMiddleware(limiter))
			authhandlers.Routes(handlers, authenticate)(r)
		})
	}

	return &Module{
		service:      service,
		handlers:     handlers,
		authenticate: authenticate,
	}, nil
}

// Authenticate is the bearer-token middleware other modules put in front of
// their routes.
func (m *Module) Authenticate() func(http.Handler) http.Handler {
	return m.authenticate
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
