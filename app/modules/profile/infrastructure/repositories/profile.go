package profiledb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultQuestionLimit is the size of a weekly quiz.
const DefaultQuestionLimit = 5

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new profile repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreateProfile(ctx context.Context, db bun.IDB, profile profiledomain.Profile) error {
	db = r.resolveDB(db)
	row := &UserProfile{
		ID:          profile.UserID,
		NRIC:        strings.ToUpper(profile.NRIC),
		Username:    profile.Username,
		Town:        profile.Town,
		GreenScore:  profile.GreenScore,
		QuizAnswers: encodeAnswers(profile.QuizAnswers),
		Rewards:     encodeRewards(profile.ClaimedRewardIDs),
	}
	if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create profile for %s: %w", profile.UserID, err)
	}
	return nil
}

func (r *Impl) GetProfile(ctx context.Context, db bun.IDB, userID uuid.UUID) (*profiledomain.Profile, error) {
	row, err := r.selectProfile(ctx, r.resolveDB(db), userID, false)
	if err != nil {
		return nil, err
	}
	p := row.toDomain()
	return &p, nil
}

func (r *Impl) GetLedgerForUpdate(ctx context.Context, db bun.IDB, userID uuid.UUID) (*profiledomain.Ledger, error) {
	row, err := r.selectProfile(ctx, r.resolveDB(db), userID, true)
	if err != nil {
		return nil, err
	}
	l := row.toDomain().Ledger
	return &l, nil
}

func (r *Impl) selectProfile(ctx context.Context, db bun.IDB, userID uuid.UUID, lock bool) (*UserProfile, error) {
	row := new(UserProfile)
	q := db.NewSelect().Model(row).Where("id = ?", userID)
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}
	return row, nil
}

func (r *Impl) UpdateLedger(ctx context.Context, db bun.IDB, ledger profiledomain.Ledger) error {
	db = r.resolveDB(db)
	row := &UserProfile{
		ID:          ledger.UserID,
		GreenScore:  ledger.GreenScore,
		QuizAnswers: encodeAnswers(ledger.QuizAnswers),
		Rewards:     encodeRewards(ledger.ClaimedRewardIDs),
		UpdatedAt:   time.Now(),
	}
	result, err := db.NewUpdate().
		Model(row).
		Column("green_score", "quiz_answers", "rewards", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update ledger %s: %w", ledger.UserID, err)
	}
	return requireRows(result)
}

func (r *Impl) AssignQuiz(ctx context.Context, db bun.IDB, ids []int64) (int, error) {
	db = r.resolveDB(db)
	answers, err := json.Marshal(encodeAnswers(profiledomain.Ledger{}.AssignQuestions(ids).QuizAnswers))
	if err != nil {
		return 0, fmt.Errorf("failed to encode quiz assignment: %w", err)
	}

	result, err := db.NewUpdate().
		Model((*UserProfile)(nil)).
		Set("quiz_answers = ?::jsonb", string(answers)).
		Set("updated_at = ?", time.Now()).
		Where("TRUE").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to assign weekly quiz: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

func requireRows(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
