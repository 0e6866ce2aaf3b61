package profileservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	profiledb "github.com/Black-And-White-Club/green-quest/app/modules/profile/infrastructure/repositories"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/green-quest/app/shared/persistence"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "profile"

// ProfileService implements the Service interface.
type ProfileService struct {
	repo             profiledb.Repository
	logger           *slog.Logger
	metrics          metrics.OperationMetrics
	tracer           trace.Tracer
	db               *bun.DB
	timeout          time.Duration
	questionsPerWeek int
	now              func() time.Time
	shuffle          func(n int, swap func(i, j int))
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	repo profiledb.Repository,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	timeout time.Duration,
	questionsPerWeek int,
) *ProfileService {
	if questionsPerWeek <= 0 {
		questionsPerWeek = profiledb.DefaultQuestionLimit
	}
	return &ProfileService{
		repo:             repo,
		logger:           logger,
		metrics:          metrics,
		tracer:           tracer,
		db:               db,
		timeout:          timeout,
		questionsPerWeek: questionsPerWeek,
		now:              time.Now,
		shuffle:          rand.Shuffle,
	}
}

var _ Service = (*ProfileService)(nil)

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ProfileService,
	ctx context.Context,
	operationName string,
	subject string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("user_id", subject),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("user_id", subject),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("user_id", subject),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.InfoContext(ctx, "Operation rejected",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("user_id", subject),
			attr.Any("reason", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx runs fn in a transaction bounded by the persistence timeout. Nothing
// is committed when fn returns an error or the deadline expires.
func runInTx[S any, F any](
	s *ProfileService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	return persistence.WithTimeout(ctx, s.timeout, func(ctx context.Context) (results.OperationResult[S, F], error) {
		if s.db == nil {
			return fn(ctx, nil)
		}

		var result results.OperationResult[S, F]
		err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			var txErr error
			result, txErr = fn(ctx, tx)
			return txErr
		})
		return result, err
	})
}

// read runs a single query under the persistence timeout.
func read[T any](s *ProfileService, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	return persistence.WithTimeout(ctx, s.timeout, fn)
}
