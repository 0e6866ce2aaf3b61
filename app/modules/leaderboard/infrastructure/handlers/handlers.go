package leaderboardhandlers

import (
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/application"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardHandlers handles leaderboard-related events.
type LeaderboardHandlers struct {
	service        leaderboardservice.Service
	logger         *slog.Logger
	tracer         trace.Tracer
	allowedOrigins []string
}

// NewLeaderboardHandlers creates a new instance of LeaderboardHandlers.
// allowedOrigins are the websocket origin patterns accepted besides the host itself.
func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger, tracer trace.Tracer, allowedOrigins []string) Handlers {
	return &LeaderboardHandlers{
		service:        service,
		logger:         logger,
		tracer:         tracer,
		allowedOrigins: allowedOrigins,
	}
}
