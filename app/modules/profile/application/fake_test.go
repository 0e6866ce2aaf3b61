package profileservice

import (
	"context"
	"io"
	"log/slog"
	"strings"

	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	profiledb "github.com/Black-And-White-Club/green-quest/app/modules/profile/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Profile Repo
// ------------------------

// FakeProfileRepository keeps profiles, questions, rewards and badges in memory.
// Setting a Func field overrides the in-memory behaviour of that method.
type FakeProfileRepository struct {
	trace []string

	Profiles  map[uuid.UUID]profiledomain.Profile
	Questions []profiledomain.ChallengeQuestion
	Rewards   []profiledomain.Reward
	Badges    []profiledomain.Badge

	GetProfileFunc      func(ctx context.Context, db bun.IDB, userID uuid.UUID) (*profiledomain.Profile, error)
	UpdateLedgerFunc    func(ctx context.Context, db bun.IDB, ledger profiledomain.Ledger) error
	ListQuestionsFunc   func(ctx context.Context, db bun.IDB, ids []int64, limit int) ([]profiledomain.ChallengeQuestion, error)
	ListRewardsFunc     func(ctx context.Context, db bun.IDB) ([]profiledomain.Reward, error)
	InsertBadgeFunc     func(ctx context.Context, db bun.IDB, badge profiledomain.Badge) (bool, error)
	AssignQuizFunc      func(ctx context.Context, db bun.IDB, ids []int64) (int, error)
	ListQuestionIDsFunc func(ctx context.Context, db bun.IDB) ([]int64, error)
}

var _ profiledb.Repository = (*FakeProfileRepository)(nil)

func NewFakeProfileRepository() *FakeProfileRepository {
	return &FakeProfileRepository{
		trace:    []string{},
		Profiles: make(map[uuid.UUID]profiledomain.Profile),
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeProfileRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeProfileRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeProfileRepository) CreateProfile(ctx context.Context, db bun.IDB, profile profiledomain.Profile) error {
	f.record("CreateProfile")
	f.Profiles[profile.UserID] = profile
	return nil
}

func (f *FakeProfileRepository) GetProfile(ctx context.Context, db bun.IDB, userID uuid.UUID) (*profiledomain.Profile, error) {
	f.record("GetProfile")
	if f.GetProfileFunc != nil {
		return f.GetProfileFunc(ctx, db, userID)
	}
	p, ok := f.Profiles[userID]
	if !ok {
		return nil, profiledb.ErrNotFound
	}
	p.Ledger = p.Ledger.Clone()
	return &p, nil
}

func (f *FakeProfileRepository) GetLedgerForUpdate(ctx context.Context, db bun.IDB, userID uuid.UUID) (*profiledomain.Ledger, error) {
	f.record("GetLedgerForUpdate")
	p, ok := f.Profiles[userID]
	if !ok {
		return nil, profiledb.ErrNotFound
	}
	l := p.Ledger.Clone()
	return &l, nil
}

func (f *FakeProfileRepository) UpdateLedger(ctx context.Context, db bun.IDB, ledger profiledomain.Ledger) error {
	f.record("UpdateLedger")
	if f.UpdateLedgerFunc != nil {
		return f.UpdateLedgerFunc(ctx, db, ledger)
	}
	p, ok := f.Profiles[ledger.UserID]
	if !ok {
		return profiledb.ErrNoRowsAffected
	}
	p.Ledger = ledger.Clone()
	f.Profiles[ledger.UserID] = p
	return nil
}

func (f *FakeProfileRepository) ListQuestions(ctx context.Context, db bun.IDB, ids []int64, limit int) ([]profiledomain.ChallengeQuestion, error) {
	f.record("ListQuestions")
	if f.ListQuestionsFunc != nil {
		return f.ListQuestionsFunc(ctx, db, ids, limit)
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []profiledomain.ChallengeQuestion
	for _, q := range f.Questions {
		if len(out) == limit {
			break
		}
		if len(ids) == 0 || want[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *FakeProfileRepository) GetQuestion(ctx context.Context, db bun.IDB, id int64) (*profiledomain.ChallengeQuestion, error) {
	f.record("GetQuestion")
	for _, q := range f.Questions {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, profiledb.ErrNotFound
}

func (f *FakeProfileRepository) ListQuestionIDs(ctx context.Context, db bun.IDB) ([]int64, error) {
	f.record("ListQuestionIDs")
	if f.ListQuestionIDsFunc != nil {
		return f.ListQuestionIDsFunc(ctx, db)
	}
	ids := make([]int64, 0, len(f.Questions))
	for _, q := range f.Questions {
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (f *FakeProfileRepository) AssignQuiz(ctx context.Context, db bun.IDB, ids []int64) (int, error) {
	f.record("AssignQuiz")
	if f.AssignQuizFunc != nil {
		return f.AssignQuizFunc(ctx, db, ids)
	}
	for id, p := range f.Profiles {
		p.Ledger = p.Ledger.AssignQuestions(ids)
		f.Profiles[id] = p
	}
	return len(f.Profiles), nil
}

func (f *FakeProfileRepository) ListRewards(ctx context.Context, db bun.IDB) ([]profiledomain.Reward, error) {
	f.record("ListRewards")
	if f.ListRewardsFunc != nil {
		return f.ListRewardsFunc(ctx, db)
	}
	return f.Rewards, nil
}

func (f *FakeProfileRepository) GetReward(ctx context.Context, db bun.IDB, id int64) (*profiledomain.Reward, error) {
	f.record("GetReward")
	for _, rw := range f.Rewards {
		if rw.ID == id {
			return &rw, nil
		}
	}
	return nil, profiledb.ErrNotFound
}

func (f *FakeProfileRepository) ListBadges(ctx context.Context, db bun.IDB, nric string) ([]profiledomain.Badge, error) {
	f.record("ListBadges")
	var out []profiledomain.Badge
	for _, b := range f.Badges {
		if strings.EqualFold(b.NRIC, nric) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *FakeProfileRepository) InsertBadge(ctx context.Context, db bun.IDB, badge profiledomain.Badge) (bool, error) {
	f.record("InsertBadge")
	if f.InsertBadgeFunc != nil {
		return f.InsertBadgeFunc(ctx, db, badge)
	}
	for _, b := range f.Badges {
		if strings.EqualFold(b.NRIC, badge.NRIC) && b.BadgeID == badge.BadgeID {
			return false, nil
		}
	}
	f.Badges = append(f.Badges, badge)
	return true, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
