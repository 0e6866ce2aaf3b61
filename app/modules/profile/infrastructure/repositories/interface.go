package profiledb

import (
	"context"

	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for profile, challenge, reward and badge
// persistence. A nil db falls back to the repository's connection.
type Repository interface {
	// CreateProfile stores a new profile with a zero score.
	CreateProfile(ctx context.Context, db bun.IDB, profile profiledomain.Profile) error

	// GetProfile returns ErrNotFound when the user has no profile.
	GetProfile(ctx context.Context, db bun.IDB, userID uuid.UUID) (*profiledomain.Profile, error)

	// GetLedgerForUpdate reads the ledger and locks the row until the
	// surrounding transaction ends.
	GetLedgerForUpdate(ctx context.Context, db bun.IDB, userID uuid.UUID) (*profiledomain.Ledger, error)

	// UpdateLedger writes the score, answers and claimed rewards together.
	UpdateLedger(ctx context.Context, db bun.IDB, ledger profiledomain.Ledger) error

	// ListQuestions returns the questions with the given ids, or the first
	// limit questions by id when ids is empty.
	ListQuestions(ctx context.Context, db bun.IDB, ids []int64, limit int) ([]profiledomain.ChallengeQuestion, error)

	// GetQuestion returns ErrNotFound for an unknown id.
	GetQuestion(ctx context.Context, db bun.IDB, id int64) (*profiledomain.ChallengeQuestion, error)

	// ListQuestionIDs returns every question id.
	ListQuestionIDs(ctx context.Context, db bun.IDB) ([]int64, error)

	// AssignQuiz resets every profile's answers to ids, all unanswered, and
	// returns the number of profiles touched.
	AssignQuiz(ctx context.Context, db bun.IDB, ids []int64) (int, error)

	// ListRewards returns the catalog ordered by id.
	ListRewards(ctx context.Context, db bun.IDB) ([]profiledomain.Reward, error)

	// GetReward returns ErrNotFound for an unknown id.
	GetReward(ctx context.Context, db bun.IDB, id int64) (*profiledomain.Reward, error)

	// ListBadges returns the badges awarded to nric, matched case-insensitively.
	ListBadges(ctx context.Context, db bun.IDB, nric string) ([]profiledomain.Badge, error)

	// InsertBadge stores badge unless nric already holds it. Reports whether a
	// row was written.
	InsertBadge(ctx context.Context, db bun.IDB, badge profiledomain.Badge) (bool, error)
}
