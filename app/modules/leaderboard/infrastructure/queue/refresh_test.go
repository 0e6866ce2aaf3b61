package leaderboardqueue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	leaderboardservice.Service
	calls int
	err   error
}

func (s *stubService) Refresh(ctx context.Context) (results.OperationResult[leaderboardservice.Snapshot, error], error) {
	s.calls++
	if s.err != nil {
		return results.OperationResult[leaderboardservice.Snapshot, error]{}, s.err
	}
	snap := leaderboardservice.NewView(nil).LoadAll([]leaderboarddomain.TownScoreRecord{
		{ID: 1, TownName: "town1", Electricity: leaderboarddomain.Reading(0), Gas: leaderboarddomain.Reading(0)},
	})
	return results.SuccessResult[leaderboardservice.Snapshot, error](snap), nil
}

func TestRefreshWorker_Work(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := &river.Job[RefreshJob]{JobRow: &rivertype.JobRow{ID: 7}}

	svc := &stubService{}
	require.NoError(t, NewRefreshWorker(svc, logger).Work(context.Background(), job))
	assert.Equal(t, 1, svc.calls)

	svc = &stubService{err: errors.New("db down")}
	assert.Error(t, NewRefreshWorker(svc, logger).Work(context.Background(), job))
}

func TestRegister(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	workers := river.NewWorkers()

	periodic := Register(&stubService{}, logger, 15*time.Minute)(workers)
	assert.Len(t, periodic, 1)
	assert.Equal(t, "leaderboard_refresh", RefreshJob{}.Kind())
}
