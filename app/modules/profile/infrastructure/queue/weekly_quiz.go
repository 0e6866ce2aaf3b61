package profilequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	profileservice "github.com/Black-And-White-Club/green-quest/app/modules/profile/application"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/riverqueue/river"
)

// WeeklyQuizJob hands every profile a fresh set of quiz questions.
type WeeklyQuizJob struct{}

// Kind returns the job type identifier for River
func (WeeklyQuizJob) Kind() string { return "weekly_quiz_assignment" }

// InsertOpts collapses duplicate inserts made on the same day.
func (WeeklyQuizJob) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		UniqueOpts: river.UniqueOpts{ByPeriod: 24 * time.Hour},
	}
}

type WeeklyQuizWorker struct {
	river.WorkerDefaults[WeeklyQuizJob]
	service profileservice.Service
	logger  *slog.Logger
}

func NewWeeklyQuizWorker(service profileservice.Service, logger *slog.Logger) *WeeklyQuizWorker {
	return &WeeklyQuizWorker{service: service, logger: logger}
}

func (w *WeeklyQuizWorker) Work(ctx context.Context, job *river.Job[WeeklyQuizJob]) error {
	result, err := w.service.AssignWeeklyQuiz(ctx)
	if err != nil {
		return fmt.Errorf("weekly quiz assignment: %w", err)
	}
	if result.IsFailure() {
		// Nothing to assign is not worth retrying.
		w.logger.WarnContext(ctx, "Weekly quiz not assigned",
			attr.Int64("job_id", job.ID),
			attr.Error(*result.Failure),
		)
		return nil
	}
	w.logger.InfoContext(ctx, "Weekly quiz assigned",
		attr.Int64("job_id", job.ID),
		attr.Any("question_ids", result.Success.QuestionIDs),
		attr.Int("profiles", result.Success.Profiles),
	)
	return nil
}

// weeklySchedule fires at the start of every Monday, right after the quiz
// deadline passes.
type weeklySchedule struct{}

func (weeklySchedule) Next(current time.Time) time.Time {
	midnight := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, current.Location())
	days := (int(time.Monday) - int(midnight.Weekday()) + 7) % 7
	next := midnight.AddDate(0, 0, days)
	if !next.After(current) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// Register adds the quiz worker and schedules it weekly.
func Register(service profileservice.Service, logger *slog.Logger) func(*river.Workers) []*river.PeriodicJob {
	return func(workers *river.Workers) []*river.PeriodicJob {
		river.AddWorker(workers, NewWeeklyQuizWorker(service, logger))
		return []*river.PeriodicJob{
			river.NewPeriodicJob(
				weeklySchedule{},
				func() (river.JobArgs, *river.InsertOpts) {
					return WeeklyQuizJob{}, nil
				},
				nil,
			),
		}
	}
}
