package leaderboardservice

import (
	"context"
	"sync"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Scoreboard Repo
// ------------------------

// FakeScoreboardRepository provides a programmable stub for the leaderboarddb.Repository interface.
type FakeScoreboardRepository struct {
	trace []string

	ListTownScoresFunc func(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddomain.TownScoreRecord, error)
	GetByTownNameFunc  func(ctx context.Context, db bun.IDB, townName string) (*leaderboarddomain.TownScoreRecord, error)
	InsertFunc         func(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) (leaderboarddomain.TownScoreRecord, error)
	UpdateFunc         func(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) error
	DeleteFunc         func(ctx context.Context, db bun.IDB, id int64) error
}

var _ leaderboarddb.Repository = (*FakeScoreboardRepository)(nil)

func NewFakeScoreboardRepository() *FakeScoreboardRepository {
	return &FakeScoreboardRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeScoreboardRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreboardRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreboardRepository) ListTownScores(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddomain.TownScoreRecord, error) {
	f.record("ListTownScores")
	if f.ListTownScoresFunc != nil {
		return f.ListTownScoresFunc(ctx, db, limit)
	}
	return nil, nil
}

func (f *FakeScoreboardRepository) GetByTownName(ctx context.Context, db bun.IDB, townName string) (*leaderboarddomain.TownScoreRecord, error) {
	f.record("GetByTownName")
	if f.GetByTownNameFunc != nil {
		return f.GetByTownNameFunc(ctx, db, townName)
	}
	return nil, leaderboarddb.ErrNotFound
}

func (f *FakeScoreboardRepository) Insert(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) (leaderboarddomain.TownScoreRecord, error) {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, record)
	}
	record.ID = 1
	return record, nil
}

func (f *FakeScoreboardRepository) Update(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, record)
	}
	return nil
}

func (f *FakeScoreboardRepository) Delete(ctx context.Context, db bun.IDB, id int64) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, id)
	}
	return nil
}

// ------------------------
// Fake Change Publisher
// ------------------------

type FakeChangePublisher struct {
	PublishChangeFunc func(ctx context.Context, ev leaderboarddomain.ChangeEvent) error
	Published         []leaderboarddomain.ChangeEvent
}

var _ ChangePublisher = (*FakeChangePublisher)(nil)

func (f *FakeChangePublisher) PublishChange(ctx context.Context, ev leaderboarddomain.ChangeEvent) error {
	if f.PublishChangeFunc != nil {
		if err := f.PublishChangeFunc(ctx, ev); err != nil {
			return err
		}
	}
	f.Published = append(f.Published, ev)
	return nil
}

// ------------------------
// Fake Feed
// ------------------------

// FakeFeed hands events straight to the subscribed handler. It counts every
// Subscribe call so tests can assert on duplicate subscriptions.
type FakeFeed struct {
	mu             sync.Mutex
	handlers       map[int]ChangeHandler
	nextID         int
	SubscribeCalls int
	SubscribeErr   error
}

var _ Feed = (*FakeFeed)(nil)

func NewFakeFeed() *FakeFeed {
	return &FakeFeed{handlers: make(map[int]ChangeHandler)}
}

type fakeSubscription struct {
	feed *FakeFeed
	id   int
}

func (s fakeSubscription) Unsubscribe() error {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	delete(s.feed.handlers, s.id)
	return nil
}

func (f *FakeFeed) Subscribe(ctx context.Context, channel string, handler ChangeHandler) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SubscribeCalls++
	if f.SubscribeErr != nil {
		return nil, f.SubscribeErr
	}
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	return fakeSubscription{feed: f, id: id}, nil
}

// Emit delivers one event to every active handler.
func (f *FakeFeed) Emit(ctx context.Context, kind string, payload []byte) {
	f.mu.Lock()
	handlers := make([]ChangeHandler, 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ctx, kind, payload)
	}
}

// Active returns the number of open subscriptions.
func (f *FakeFeed) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// ------------------------
// Fake Feed Metrics
// ------------------------

type FakeFeedMetrics struct {
	mu      sync.Mutex
	Applied map[string]int
	Dropped map[string]int
}

func NewFakeFeedMetrics() *FakeFeedMetrics {
	return &FakeFeedMetrics{Applied: map[string]int{}, Dropped: map[string]int{}}
}

func (m *FakeFeedMetrics) RecordEventApplied(ctx context.Context, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Applied[kind]++
}

func (m *FakeFeedMetrics) RecordEventDropped(ctx context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dropped[reason]++
}
