package leaderboardqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/riverqueue/river"
)

// RefreshJob reloads the in-memory leaderboard from the scoreboard table.
type RefreshJob struct{}

// Kind returns the job type identifier for River
func (RefreshJob) Kind() string { return "leaderboard_refresh" }

// RefreshWorker runs RefreshJob.
type RefreshWorker struct {
	river.WorkerDefaults[RefreshJob]
	service leaderboardservice.Service
	logger  *slog.Logger
}

func NewRefreshWorker(service leaderboardservice.Service, logger *slog.Logger) *RefreshWorker {
	return &RefreshWorker{service: service, logger: logger}
}

func (w *RefreshWorker) Work(ctx context.Context, job *river.Job[RefreshJob]) error {
	result, err := w.service.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("leaderboard refresh: %w", err)
	}
	if result.IsSuccess() {
		w.logger.InfoContext(ctx, "Periodic leaderboard refresh done",
			attr.Int64("job_id", job.ID),
			attr.Int("ranked", result.Success.Len()),
		)
	}
	return nil
}

// Register adds the refresh worker and schedules it every interval, starting
// as soon as the client starts.
func Register(service leaderboardservice.Service, logger *slog.Logger, interval time.Duration) func(*river.Workers) []*river.PeriodicJob {
	return func(workers *river.Workers) []*river.PeriodicJob {
		river.AddWorker(workers, NewRefreshWorker(service, logger))
		return []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(interval),
				func() (river.JobArgs, *river.InsertOpts) {
					return RefreshJob{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		}
	}
}
