package leaderboardservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	leaderboarddb "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/green-quest/app/shared/persistence"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "leaderboard"

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo      leaderboarddb.Repository
	view      *View
	publisher ChangePublisher
	logger    *slog.Logger
	metrics   metrics.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
	timeout   time.Duration
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	view *View,
	publisher ChangePublisher,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	timeout time.Duration,
) *LeaderboardService {
	return &LeaderboardService{
		repo:      repo,
		view:      view,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		timeout:   timeout,
	}
}

var _ Service = (*LeaderboardService)(nil)

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	subject string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("subject", subject),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.String("subject", subject),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("subject", subject),
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
			attr.String("subject", subject),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("subject", subject),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx runs fn in a transaction bounded by the persistence timeout. An expired
// deadline cancels the transaction, so nothing is committed.
func runInTx[S any, F any](
	s *LeaderboardService,
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

// View exposes the in-memory leaderboard.
func (s *LeaderboardService) View() *View {
	return s.view
}

// GetLeaderboard returns the current snapshot without touching the store.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) Snapshot {
	return s.view.Snapshot()
}
