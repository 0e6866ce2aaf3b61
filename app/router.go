package app

import (
	"net/http"
	"time"

	authhandlers "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/green-quest/app/shared/httpresponse"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability"
	"github.com/Black-And-White-Club/green-quest/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

func newHTTPRouter(cfg *config.Config, obs observability.Observability) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))

	r.Get("/health", handleHealth)
	if obs.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	httpresponse.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   observability.ServiceName,
		Timestamp: time.Now().UTC(),
	})
}
