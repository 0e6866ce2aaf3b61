package leaderboardservice

import (
	"context"
	"errors"
	"strings"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/uptrace/bun"
)

type usageResult = results.OperationResult[leaderboarddomain.TownScoreRecord, error]

// SubmitTownUsage writes a town's new readings and publishes the change event
// once the write has committed. A failed publish is logged and does not fail
// the call.
func (s *LeaderboardService) SubmitTownUsage(ctx context.Context, usage leaderboarddomain.TownUsageSubmittedPayload) (usageResult, error) {
	usage.TownName = strings.TrimSpace(usage.TownName)

	return withTelemetry(s, ctx, "SubmitTownUsage", usage.TownName, func(ctx context.Context) (usageResult, error) {
		if failure := validateUsage(usage); failure != nil {
			return results.FailureResult[leaderboarddomain.TownScoreRecord, error](failure), nil
		}

		var change leaderboarddomain.ChangeEvent
		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (usageResult, error) {
			var err error
			change, err = s.upsertUsageLogic(ctx, db, usage)
			if err != nil {
				if errors.Is(err, leaderboarddomain.ErrNegativeUsage) || errors.Is(err, leaderboarddomain.ErrInvalidUsage) {
					return results.FailureResult[leaderboarddomain.TownScoreRecord, error](err), nil
				}
				return usageResult{}, err
			}
			return results.SuccessResult[leaderboarddomain.TownScoreRecord, error](*change.Record), nil
		})
		if err != nil || result.IsFailure() {
			return result, err
		}

		// The row is committed; the next Refresh picks it up if the event is lost.
		if err := s.publisher.PublishChange(ctx, change); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish scoreboard change",
				attr.String("town_name", usage.TownName),
				attr.String("event", string(change.Kind)),
				attr.Error(err),
				attr.ExtractCorrelationID(ctx),
			)
			return result, nil
		}

		s.logger.InfoContext(ctx, "Town usage recorded",
			attr.String("town_name", usage.TownName),
			attr.String("event", string(change.Kind)),
			attr.Float64("green_score", change.Record.GreenScore),
			attr.ExtractCorrelationID(ctx),
		)
		return result, nil
	})
}

func (s *LeaderboardService) upsertUsageLogic(ctx context.Context, db bun.IDB, usage leaderboarddomain.TownUsageSubmittedPayload) (leaderboarddomain.ChangeEvent, error) {
	existing, err := s.repo.GetByTownName(ctx, db, usage.TownName)
	if errors.Is(err, leaderboarddb.ErrNotFound) {
		rec, err := leaderboarddomain.ApplyUsage(leaderboarddomain.TownScoreRecord{TownName: usage.TownName}, usage)
		if err != nil {
			return leaderboarddomain.ChangeEvent{}, err
		}
		saved, err := s.repo.Insert(ctx, db, rec)
		if err != nil {
			return leaderboarddomain.ChangeEvent{}, err
		}
		return leaderboarddomain.NewInsertEvent(saved), nil
	}
	if err != nil {
		return leaderboarddomain.ChangeEvent{}, err
	}

	rec, err := leaderboarddomain.ApplyUsage(*existing, usage)
	if err != nil {
		return leaderboarddomain.ChangeEvent{}, err
	}
	if err := s.repo.Update(ctx, db, rec); err != nil {
		return leaderboarddomain.ChangeEvent{}, err
	}
	return leaderboarddomain.NewUpdateEvent(rec, *existing), nil
}

func validateUsage(usage leaderboarddomain.TownUsageSubmittedPayload) error {
	if usage.TownName == "" {
		return ErrTownNameRequired
	}
	if usage.Electricity == nil && usage.Gas == nil && usage.Recycle == nil {
		return ErrNoReadingsInEvent
	}
	for _, v := range []*float64{usage.Electricity, usage.Gas, usage.Recycle} {
		if v == nil {
			continue
		}
		if err := leaderboarddomain.ValidateReading(*v); err != nil {
			return err
		}
	}
	return nil
}
