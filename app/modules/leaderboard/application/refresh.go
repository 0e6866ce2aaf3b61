package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/persistence"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
)

// Refresh loads up to DefaultListLimit rows and replaces the leaderboard state.
// A reload always supersedes patches applied before it.
func (s *LeaderboardService) Refresh(ctx context.Context) (results.OperationResult[Snapshot, error], error) {
	return withTelemetry(s, ctx, "Refresh", "scoreboard", func(ctx context.Context) (results.OperationResult[Snapshot, error], error) {
		records, err := persistence.WithTimeout(ctx, s.timeout, func(ctx context.Context) ([]leaderboarddomain.TownScoreRecord, error) {
			return s.repo.ListTownScores(ctx, nil, leaderboarddb.DefaultListLimit)
		})
		if err != nil {
			return results.OperationResult[Snapshot, error]{}, err
		}

		snap := s.view.LoadAll(records)
		s.logger.InfoContext(ctx, "Leaderboard reloaded",
			attr.Int("rows", len(records)),
			attr.Int("ranked", snap.Len()),
			attr.ExtractCorrelationID(ctx),
		)
		return results.SuccessResult[Snapshot, error](snap), nil
	})
}

// GetTownRank returns the town's rank and tier in the current snapshot.
func (s *LeaderboardService) GetTownRank(ctx context.Context, townName string) (results.OperationResult[TownRank, error], error) {
	return withTelemetry(s, ctx, "GetTownRank", townName, func(ctx context.Context) (results.OperationResult[TownRank, error], error) {
		snap := s.view.Snapshot()
		rank, ok := snap.RankOf(townName)
		if !ok {
			return results.FailureResult[TownRank, error](ErrTownNotRanked), nil
		}
		rec := snap.records[rank-1]
		return results.SuccessResult[TownRank, error](TownRank{
			TownName:   rec.TownName,
			Rank:       rank,
			Tier:       TierOf(rank),
			GreenScore: rec.GreenScore,
		}), nil
	})
}
