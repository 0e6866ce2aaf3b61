package energyservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	energydomain "github.com/Black-And-White-Club/green-quest/app/modules/energy/domain"
	energyparsers "github.com/Black-And-White-Club/green-quest/app/modules/energy/infrastructure/parsers"
	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "energy"

type summaryResult = results.OperationResult[ImportSummary, error]

// EnergyService implements the Service interface.
type EnergyService struct {
	submitter UsageSubmitter
	parsers   energyparsers.ParserFactory
	readFile  func(name string) ([]byte, error)
	logger    *slog.Logger
	metrics   metrics.OperationMetrics
	tracer    trace.Tracer
}

// NewEnergyService creates a new EnergyService reading sheets from disk.
func NewEnergyService(
	submitter UsageSubmitter,
	parsers energyparsers.ParserFactory,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
) *EnergyService {
	return &EnergyService{
		submitter: submitter,
		parsers:   parsers,
		readFile:  os.ReadFile,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
	}
}

var _ Service = (*EnergyService)(nil)

func (s *EnergyService) ImportMonth(ctx context.Context, req ImportRequest) (result summaryResult, err error) {
	const operationName = "ImportMonth"
	period := req.Period.String()

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("period", period),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(start))
		switch {
		case err != nil:
			span.RecordError(err)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		case result.IsFailure():
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		default:
			s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
		}
	}()

	if req.ElectricityFile == "" && req.GasFile == "" {
		return results.FailureResult[ImportSummary, error](ErrNoFiles), nil
	}

	summary := ImportSummary{Period: period}

	electricity, err := s.readSheet(req.ElectricityFile, req.Period, &summary)
	if err != nil {
		return s.rejectSheet("electricity", req.ElectricityFile, err)
	}
	gas, err := s.readSheet(req.GasFile, req.Period, &summary)
	if err != nil {
		return s.rejectSheet("gas", req.GasFile, err)
	}

	usage := merge(electricity, gas)
	towns := make([]string, 0, len(usage))
	for town := range usage {
		towns = append(towns, town)
	}
	slices.Sort(towns)

	for _, town := range towns {
		res, err := s.submitter.SubmitTownUsage(ctx, usage[town])
		switch {
		case err != nil:
			summary.fail(town, err)
			s.logger.ErrorContext(ctx, "Town import failed", attr.String("town_name", town), attr.Error(err))
		case res.IsFailure():
			summary.fail(town, *res.Failure)
		default:
			summary.Succeeded++
		}
	}

	s.logger.InfoContext(ctx, "Monthly usage imported",
		attr.String("period", period),
		attr.Int("succeeded", summary.Succeeded),
		attr.Int("failed", summary.Failed),
	)
	return results.SuccessResult[ImportSummary, error](summary), nil
}

// readSheet returns the period's readings of one file; an empty name reads
// nothing. Unreadable rows are recorded on summary.
func (s *EnergyService) readSheet(name string, period energydomain.Period, summary *ImportSummary) ([]energydomain.Reading, error) {
	if name == "" {
		return nil, nil
	}
	parser, err := s.parsers.GetParser(name)
	if err != nil {
		return nil, err
	}
	data, err := s.readFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	sheet, err := parser.Parse(data, period)
	if err != nil {
		return nil, err
	}
	for _, rowErr := range sheet.Errors {
		summary.fail(rowErr.Town, rowErr)
	}
	return sheet.Readings, nil
}

// rejectSheet reports a sheet that cannot be read at all. Missing, empty,
// malformed or unsupported files and sheets without the period are failures.
func (s *EnergyService) rejectSheet(kind, name string, err error) (summaryResult, error) {
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, energyparsers.ErrUnsupportedFileType) ||
		errors.Is(err, energydomain.ErrUnreadableSheet) ||
		errors.Is(err, energydomain.ErrNoTownColumn) ||
		errors.Is(err, energydomain.ErrPeriodNotFound) {
		return results.FailureResult[ImportSummary, error](fmt.Errorf("%s sheet %s: %w", kind, name, err)), nil
	}
	return summaryResult{}, fmt.Errorf("%s sheet %s: %w", kind, name, err)
}

func merge(electricity, gas []energydomain.Reading) map[string]leaderboarddomain.TownUsageSubmittedPayload {
	usage := make(map[string]leaderboarddomain.TownUsageSubmittedPayload)
	for _, r := range electricity {
		u := usage[r.Town]
		u.TownName = r.Town
		u.Electricity = leaderboarddomain.Reading(r.Value)
		usage[r.Town] = u
	}
	for _, r := range gas {
		u := usage[r.Town]
		u.TownName = r.Town
		u.Gas = leaderboarddomain.Reading(r.Value)
		usage[r.Town] = u
	}
	return usage
}

func (s *ImportSummary) fail(town string, err error) {
	s.Failed++
	s.Failures = append(s.Failures, TownFailure{Town: town, Reason: err.Error()})
}
