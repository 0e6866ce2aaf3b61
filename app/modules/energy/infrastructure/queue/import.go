package energyqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	energyservice "github.com/Black-And-White-Club/green-quest/app/modules/energy/application"
	energydomain "github.com/Black-And-White-Club/green-quest/app/modules/energy/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/riverqueue/river"
)

// ImportJob imports one month of usage sheets. Period is anything
// energydomain.ParsePeriod accepts, resolved when the job runs.
type ImportJob struct {
	Period          string `json:"period"`
	ElectricityFile string `json:"electricity_file"`
	GasFile         string `json:"gas_file"`
}

// Kind returns the job type identifier for River
func (ImportJob) Kind() string { return "energy_monthly_import" }

type ImportWorker struct {
	river.WorkerDefaults[ImportJob]
	service energyservice.Service
	logger  *slog.Logger
	now     func() time.Time
}

func NewImportWorker(service energyservice.Service, logger *slog.Logger) *ImportWorker {
	return &ImportWorker{service: service, logger: logger, now: time.Now}
}

func (w *ImportWorker) Work(ctx context.Context, job *river.Job[ImportJob]) error {
	period, err := energydomain.ParsePeriod(job.Args.Period, w.now())
	if err != nil {
		return river.JobCancel(err)
	}

	result, err := w.service.ImportMonth(ctx, energyservice.ImportRequest{
		Period:          period,
		ElectricityFile: job.Args.ElectricityFile,
		GasFile:         job.Args.GasFile,
	})
	if err != nil {
		return fmt.Errorf("energy import %s: %w", period, err)
	}
	if result.IsFailure() {
		return river.JobCancel(*result.Failure)
	}

	w.logger.InfoContext(ctx, "Energy import job done",
		attr.Int64("job_id", job.ID),
		attr.String("period", period.String()),
		attr.Int("succeeded", result.Success.Succeeded),
		attr.Int("failed", result.Success.Failed),
	)
	return nil
}

// monthlySchedule fires at 03:00 on the first day of every month.
type monthlySchedule struct{}

func (monthlySchedule) Next(current time.Time) time.Time {
	next := time.Date(current.Year(), current.Month(), 1, 3, 0, 0, 0, current.Location())
	if !next.After(current) {
		next = next.AddDate(0, 1, 0)
	}
	return next
}

// Register adds the import worker. When sheet paths are configured it also
// imports the previous month at the start of each month.
func Register(service energyservice.Service, logger *slog.Logger, electricityFile, gasFile string) func(*river.Workers) []*river.PeriodicJob {
	return func(workers *river.Workers) []*river.PeriodicJob {
		river.AddWorker(workers, NewImportWorker(service, logger))
		if electricityFile == "" && gasFile == "" {
			return nil
		}
		return []*river.PeriodicJob{
			river.NewPeriodicJob(
				monthlySchedule{},
				func() (river.JobArgs, *river.InsertOpts) {
					return ImportJob{Period: "last month", ElectricityFile: electricityFile, GasFile: gasFile}, nil
				},
				nil,
			),
		}
	}
}
