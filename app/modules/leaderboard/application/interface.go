package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
)

// Service defines the contract for leaderboard operations.
type Service interface {
	// Refresh reloads every scoreboard row and replaces the in-memory leaderboard.
	Refresh(ctx context.Context) (results.OperationResult[Snapshot, error], error)

	// GetLeaderboard returns the current in-memory snapshot.
	GetLeaderboard(ctx context.Context) Snapshot

	// GetTownRank looks a town up in the current snapshot.
	GetTownRank(ctx context.Context, townName string) (results.OperationResult[TownRank, error], error)

	// SubmitTownUsage merges new readings into a town's row, creating it if needed,
	// and publishes the resulting change event.
	SubmitTownUsage(ctx context.Context, usage leaderboarddomain.TownUsageSubmittedPayload) (results.OperationResult[leaderboarddomain.TownScoreRecord, error], error)

	// RenderChart draws the top towns of the current snapshot as a PNG bar chart.
	RenderChart(ctx context.Context, top int) ([]byte, error)

	// View exposes the in-memory leaderboard for subscribers.
	View() *View
}

// ChangePublisher publishes scoreboard change events.
type ChangePublisher interface {
	PublishChange(ctx context.Context, ev leaderboarddomain.ChangeEvent) error
}

// TownRank is a single town's standing.
type TownRank struct {
	TownName   string                 `json:"town_name"`
	Rank       int                    `json:"rank"`
	Tier       leaderboarddomain.Tier `json:"tier"`
	GreenScore float64                `json:"green_score"`
}
