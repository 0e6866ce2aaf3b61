// Package queue runs the River job client shared by every module.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

const serviceName = "river"

// Registration lets a module add its workers and periodic jobs before the
// client is built.
type Registration func(workers *river.Workers) []*river.PeriodicJob

// Enqueuer inserts jobs. It is what module code depends on.
type Enqueuer interface {
	Enqueue(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) error
}

// Service wraps the River client and its pgx pool.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics.OperationMetrics
}

var _ Enqueuer = (*Service)(nil)

// NewService connects a pgx pool to dsn, migrates River's tables and builds a
// client with every registered worker.
func NewService(ctx context.Context, dsn string, logger *slog.Logger, m metrics.OperationMetrics, registrations ...Registration) (*Service, error) {
	logger = logger.With(attr.String("component", "river_queue"))

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver := riverpgxv5.New(pool)
	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to migrate River tables: %w", err)
	}

	workers := river.NewWorkers()
	var periodic []*river.PeriodicJob
	for _, register := range registrations {
		periodic = append(periodic, register(workers)...)
	}

	client, err := river.NewClient(driver, &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       logger,
	})
	if err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	m.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))
	logger.InfoContext(ctx, "Queue service initialized", attr.Int("periodic_jobs", len(periodic)))

	return &Service{client: client, pool: pool, logger: logger, metrics: m}, nil
}

// Start starts working jobs.
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", serviceName)
	if err := s.client.Start(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "start_service", serviceName)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", serviceName)
	s.logger.InfoContext(ctx, "Queue service started")
	return nil
}

// Stop waits for running jobs to finish and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "stop_service", serviceName)
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.InfoContext(ctx, "Queue service stopped")
	return nil
}

// Enqueue inserts a job.
func (s *Service) Enqueue(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_"+args.Kind(), serviceName)

	res, err := s.client.Insert(ctx, args, opts)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_"+args.Kind(), serviceName)
		return fmt.Errorf("failed to enqueue %s job: %w", args.Kind(), err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_"+args.Kind(), serviceName)
	s.metrics.RecordOperationDuration(ctx, "enqueue_"+args.Kind(), serviceName, time.Since(start))
	s.logger.InfoContext(ctx, "Job enqueued",
		attr.String("kind", args.Kind()),
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("unique_skipped", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// HealthCheck pings the queue's pool.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
