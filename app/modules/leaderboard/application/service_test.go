package leaderboardservice

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/green-quest/app/shared/persistence"
	"github.com/google/go-cmp/cmp"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(repo *FakeScoreboardRepository, pub *FakeChangePublisher, timeout time.Duration) *LeaderboardService {
	return &LeaderboardService{
		repo:      repo,
		view:      NewView(testLogger()),
		publisher: pub,
		logger:    testLogger(),
		metrics:   metrics.NewNoop(),
		tracer:    noop.NewTracerProvider().Tracer("test"),
		timeout:   timeout,
	}
}

func TestLeaderboardService_Refresh(t *testing.T) {
	repo := NewFakeScoreboardRepository()
	var gotLimit int
	repo.ListTownScoresFunc = func(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddomain.TownScoreRecord, error) {
		gotLimit = limit
		return []leaderboarddomain.TownScoreRecord{
			town(1, "town1", reading(410), reading(0)),
			town(2, "town2", nil, reading(0)),
			town(3, "town3", reading(0), reading(0)),
		}, nil
	}
	s := newTestService(repo, &FakeChangePublisher{}, time.Second)

	res, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("expected success, got %+v", res)
	}
	if gotLimit != leaderboarddb.DefaultListLimit {
		t.Errorf("expected limit %d, got %d", leaderboarddb.DefaultListLimit, gotLimit)
	}
	if diff := cmp.Diff([]int64{3, 1}, ids(s.GetLeaderboard(context.Background()))); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestLeaderboardService_RefreshErrors(t *testing.T) {
	t.Run("store error keeps previous state", func(t *testing.T) {
		repo := NewFakeScoreboardRepository()
		s := newTestService(repo, &FakeChangePublisher{}, time.Second)
		s.view.LoadAll([]leaderboarddomain.TownScoreRecord{town(1, "town1", reading(0), reading(0))})

		repo.ListTownScoresFunc = func(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddomain.TownScoreRecord, error) {
			return nil, errors.New("connection refused")
		}
		if _, err := s.Refresh(context.Background()); err == nil {
			t.Fatalf("expected error")
		}
		if s.view.Snapshot().Len() != 1 {
			t.Fatalf("previous state should survive a failed reload")
		}
	})

	t.Run("slow store times out", func(t *testing.T) {
		repo := NewFakeScoreboardRepository()
		repo.ListTownScoresFunc = func(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddomain.TownScoreRecord, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		s := newTestService(repo, &FakeChangePublisher{}, 20*time.Millisecond)

		_, err := s.Refresh(context.Background())
		if !errors.Is(err, persistence.ErrTimedOut) {
			t.Fatalf("expected timeout error, got %v", err)
		}
	})
}

func TestLeaderboardService_GetTownRank(t *testing.T) {
	s := newTestService(NewFakeScoreboardRepository(), &FakeChangePublisher{}, time.Second)
	s.view.LoadAll([]leaderboarddomain.TownScoreRecord{
		town(1, "town1", reading(410), reading(0)),
		town(2, "town2", reading(0), reading(0)),
	})

	res, err := s.GetTownRank(context.Background(), "town1")
	if err != nil {
		t.Fatalf("GetTownRank: %v", err)
	}
	want := TownRank{TownName: "town1", Rank: 2, Tier: leaderboarddomain.TierDiamond, GreenScore: 70.3}
	if diff := cmp.Diff(want, *res.Success); diff != "" {
		t.Fatalf("rank mismatch (-want +got):\n%s", diff)
	}

	res, err = s.GetTownRank(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("GetTownRank: %v", err)
	}
	if !res.IsFailure() || !errors.Is(*res.Failure, ErrTownNotRanked) {
		t.Fatalf("expected ErrTownNotRanked failure, got %+v", res)
	}
}

func TestLeaderboardService_SubmitTownUsage(t *testing.T) {
	t.Run("new town is inserted and published", func(t *testing.T) {
		repo := NewFakeScoreboardRepository()
		pub := &FakeChangePublisher{}
		s := newTestService(repo, pub, time.Second)

		res, err := s.SubmitTownUsage(context.Background(), leaderboarddomain.TownUsageSubmittedPayload{
			TownName:    "  town1 ",
			Electricity: reading(410),
			Gas:         reading(0),
		})
		if err != nil {
			t.Fatalf("SubmitTownUsage: %v", err)
		}
		if !res.IsSuccess() {
			t.Fatalf("expected success, got %+v", res)
		}
		if res.Success.TownName != "town1" || res.Success.GreenScore != 70.3 {
			t.Fatalf("unexpected record %+v", *res.Success)
		}
		if diff := cmp.Diff([]string{"GetByTownName", "Insert"}, repo.Trace()); diff != "" {
			t.Fatalf("trace mismatch (-want +got):\n%s", diff)
		}
		if len(pub.Published) != 1 || pub.Published[0].Kind != leaderboarddomain.ChangeInsert {
			t.Fatalf("expected one INSERT published, got %+v", pub.Published)
		}
	})

	t.Run("existing town is merged and updated", func(t *testing.T) {
		repo := NewFakeScoreboardRepository()
		existing := town(7, "town1", reading(410), reading(70))
		repo.GetByTownNameFunc = func(ctx context.Context, db bun.IDB, townName string) (*leaderboarddomain.TownScoreRecord, error) {
			rec := existing
			return &rec, nil
		}
		var updated leaderboarddomain.TownScoreRecord
		repo.UpdateFunc = func(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) error {
			updated = record
			return nil
		}
		pub := &FakeChangePublisher{}
		s := newTestService(repo, pub, time.Second)

		_, err := s.SubmitTownUsage(context.Background(), leaderboarddomain.TownUsageSubmittedPayload{
			TownName: "town1",
			Gas:      reading(0),
		})
		if err != nil {
			t.Fatalf("SubmitTownUsage: %v", err)
		}
		if updated.ID != 7 || *updated.Electricity != 410 || *updated.Gas != 0 || updated.GreenScore != 70.3 {
			t.Fatalf("unexpected update %+v", updated)
		}
		if len(pub.Published) != 1 {
			t.Fatalf("expected one event, got %d", len(pub.Published))
		}
		ev := pub.Published[0]
		if ev.Kind != leaderboarddomain.ChangeUpdate || ev.OldRecord == nil || *ev.OldRecord.Gas != 70 {
			t.Fatalf("unexpected event %+v", ev)
		}
	})

	t.Run("invalid submissions are failures", func(t *testing.T) {
		cases := map[string]struct {
			usage leaderboarddomain.TownUsageSubmittedPayload
			want  error
		}{
			"blank name":       {usage: leaderboarddomain.TownUsageSubmittedPayload{TownName: " ", Gas: reading(1)}, want: ErrTownNameRequired},
			"no readings":      {usage: leaderboarddomain.TownUsageSubmittedPayload{TownName: "town1"}, want: ErrNoReadingsInEvent},
			"negative reading": {usage: leaderboarddomain.TownUsageSubmittedPayload{TownName: "town1", Electricity: reading(-5)}, want: leaderboarddomain.ErrNegativeUsage},
			"negative recycle": {usage: leaderboarddomain.TownUsageSubmittedPayload{TownName: "town1", Recycle: reading(-1)}, want: leaderboarddomain.ErrNegativeUsage},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				repo := NewFakeScoreboardRepository()
				pub := &FakeChangePublisher{}
				s := newTestService(repo, pub, time.Second)

				res, err := s.SubmitTownUsage(context.Background(), tc.usage)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !res.IsFailure() || !errors.Is(*res.Failure, tc.want) {
					t.Fatalf("expected failure %v, got %+v", tc.want, res)
				}
				if len(repo.Trace()) != 0 || len(pub.Published) != 0 {
					t.Fatalf("invalid submission touched the store or bus")
				}
			})
		}
	})

	t.Run("store error is not published", func(t *testing.T) {
		repo := NewFakeScoreboardRepository()
		repo.InsertFunc = func(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) (leaderboarddomain.TownScoreRecord, error) {
			return record, errors.New("unique violation")
		}
		pub := &FakeChangePublisher{}
		s := newTestService(repo, pub, time.Second)

		_, err := s.SubmitTownUsage(context.Background(), leaderboarddomain.TownUsageSubmittedPayload{TownName: "town1", Gas: reading(1)})
		if err == nil {
			t.Fatalf("expected error")
		}
		if len(pub.Published) != 0 {
			t.Fatalf("failed write must not publish")
		}
	})

	t.Run("publish error keeps the committed write", func(t *testing.T) {
		repo := NewFakeScoreboardRepository()
		pub := &FakeChangePublisher{PublishChangeFunc: func(ctx context.Context, ev leaderboarddomain.ChangeEvent) error {
			return errors.New("bus closed")
		}}
		s := newTestService(repo, pub, time.Second)

		res, err := s.SubmitTownUsage(context.Background(), leaderboarddomain.TownUsageSubmittedPayload{TownName: "town1", Gas: reading(1)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsSuccess() || res.Success.TownName != "town1" {
			t.Fatalf("expected committed record, got %+v", res)
		}
		if diff := cmp.Diff([]string{"GetByTownName", "Insert"}, repo.Trace()); diff != "" {
			t.Fatalf("trace mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("slow store times out without publishing", func(t *testing.T) {
		repo := NewFakeScoreboardRepository()
		repo.GetByTownNameFunc = func(ctx context.Context, db bun.IDB, townName string) (*leaderboarddomain.TownScoreRecord, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		pub := &FakeChangePublisher{}
		s := newTestService(repo, pub, 20*time.Millisecond)

		_, err := s.SubmitTownUsage(context.Background(), leaderboarddomain.TownUsageSubmittedPayload{TownName: "town1", Gas: reading(1)})
		if !errors.Is(err, persistence.ErrTimedOut) {
			t.Fatalf("expected timeout, got %v", err)
		}
		if len(pub.Published) != 0 {
			t.Fatalf("timed out write must not publish")
		}
	})
}

func TestLeaderboardService_RenderChart(t *testing.T) {
	pngHeader := []byte("\x89PNG\r\n\x1a\n")
	s := newTestService(NewFakeScoreboardRepository(), &FakeChangePublisher{}, time.Second)

	empty, err := s.RenderChart(context.Background(), 0)
	if err != nil {
		t.Fatalf("RenderChart on empty board: %v", err)
	}
	if !bytes.HasPrefix(empty, pngHeader) {
		t.Fatalf("expected PNG output for empty board")
	}

	s.view.LoadAll([]leaderboarddomain.TownScoreRecord{
		town(1, "town1", reading(410), reading(0)),
		town(2, "town2", reading(0), reading(0)),
	})
	img, err := s.RenderChart(context.Background(), 5)
	if err != nil {
		t.Fatalf("RenderChart: %v", err)
	}
	if !bytes.HasPrefix(img, pngHeader) {
		t.Fatalf("expected PNG output")
	}
}
