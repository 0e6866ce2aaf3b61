package profilehandlers

import (
	"errors"
	"log/slog"
	"net/http"

	profileservice "github.com/Black-And-White-Club/green-quest/app/modules/profile/application"
	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"go.opentelemetry.io/otel/trace"
)

// ProfileHandlers implements the Handlers interface.
type ProfileHandlers struct {
	service profileservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewProfileHandlers creates a new ProfileHandlers.
func NewProfileHandlers(service profileservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &ProfileHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// statusForFailure maps a validation failure to its HTTP status.
func statusForFailure(failure error) int {
	switch {
	case errors.Is(failure, profileservice.ErrProfileNotFound),
		errors.Is(failure, profiledomain.ErrQuestionNotFound),
		errors.Is(failure, profiledomain.ErrRewardNotFound):
		return http.StatusNotFound
	case errors.Is(failure, profiledomain.ErrAlreadyAnswered),
		errors.Is(failure, profiledomain.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(failure, profiledomain.ErrInsufficientPoints),
		errors.Is(failure, profiledomain.ErrQuestionNotAssigned),
		errors.Is(failure, profileservice.ErrRewardUnavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
