package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
)

// FakeService implements leaderboardservice.Service for handler testing.
type FakeService struct {
	trace []string

	RefreshFunc         func(ctx context.Context) (results.OperationResult[leaderboardservice.Snapshot, error], error)
	GetTownRankFunc     func(ctx context.Context, townName string) (results.OperationResult[leaderboardservice.TownRank, error], error)
	SubmitTownUsageFunc func(ctx context.Context, usage leaderboarddomain.TownUsageSubmittedPayload) (results.OperationResult[leaderboarddomain.TownScoreRecord, error], error)
	RenderChartFunc     func(ctx context.Context, top int) ([]byte, error)
	SubmittedUsage      []leaderboarddomain.TownUsageSubmittedPayload
	view                *leaderboardservice.View
}

var _ leaderboardservice.Service = (*FakeService)(nil)

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}, view: leaderboardservice.NewView(nil)}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	return f.trace
}

func (f *FakeService) Refresh(ctx context.Context) (results.OperationResult[leaderboardservice.Snapshot, error], error) {
	f.record("Refresh")
	if f.RefreshFunc != nil {
		return f.RefreshFunc(ctx)
	}
	return results.SuccessResult[leaderboardservice.Snapshot, error](f.view.Snapshot()), nil
}

func (f *FakeService) GetLeaderboard(ctx context.Context) leaderboardservice.Snapshot {
	f.record("GetLeaderboard")
	return f.view.Snapshot()
}

func (f *FakeService) GetTownRank(ctx context.Context, townName string) (results.OperationResult[leaderboardservice.TownRank, error], error) {
	f.record("GetTownRank")
	if f.GetTownRankFunc != nil {
		return f.GetTownRankFunc(ctx, townName)
	}
	return results.FailureResult[leaderboardservice.TownRank, error](leaderboardservice.ErrTownNotRanked), nil
}

func (f *FakeService) SubmitTownUsage(ctx context.Context, usage leaderboarddomain.TownUsageSubmittedPayload) (results.OperationResult[leaderboarddomain.TownScoreRecord, error], error) {
	f.record("SubmitTownUsage")
	f.SubmittedUsage = append(f.SubmittedUsage, usage)
	if f.SubmitTownUsageFunc != nil {
		return f.SubmitTownUsageFunc(ctx, usage)
	}
	return results.SuccessResult[leaderboarddomain.TownScoreRecord, error](leaderboarddomain.TownScoreRecord{TownName: usage.TownName}), nil
}

func (f *FakeService) RenderChart(ctx context.Context, top int) ([]byte, error) {
	f.record("RenderChart")
	if f.RenderChartFunc != nil {
		return f.RenderChartFunc(ctx, top)
	}
	return []byte("\x89PNG\r\n\x1a\n"), nil
}

func (f *FakeService) View() *leaderboardservice.View {
	return f.view
}
