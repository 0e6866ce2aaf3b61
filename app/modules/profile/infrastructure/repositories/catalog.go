package profiledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/uptrace/bun"
)

func (r *Impl) ListQuestions(ctx context.Context, db bun.IDB, ids []int64, limit int) ([]profiledomain.ChallengeQuestion, error) {
	db = r.resolveDB(db)
	if limit <= 0 {
		limit = DefaultQuestionLimit
	}

	var rows []Challenge
	q := db.NewSelect().Model(&rows).OrderExpr("id ASC").Limit(limit)
	if len(ids) > 0 {
		q = q.Where("id IN (?)", bun.In(ids))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list challenge questions: %w", err)
	}

	out := make([]profiledomain.ChallengeQuestion, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *Impl) GetQuestion(ctx context.Context, db bun.IDB, id int64) (*profiledomain.ChallengeQuestion, error) {
	db = r.resolveDB(db)
	row := new(Challenge)
	if err := db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get challenge question %d: %w", id, err)
	}
	q := row.toDomain()
	return &q, nil
}

func (r *Impl) ListQuestionIDs(ctx context.Context, db bun.IDB) ([]int64, error) {
	db = r.resolveDB(db)
	var ids []int64
	if err := db.NewSelect().Model((*Challenge)(nil)).Column("id").OrderExpr("id ASC").Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("failed to list challenge ids: %w", err)
	}
	return ids, nil
}

func (r *Impl) ListRewards(ctx context.Context, db bun.IDB) ([]profiledomain.Reward, error) {
	db = r.resolveDB(db)
	var rows []RewardRow
	if err := db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	out := make([]profiledomain.Reward, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *Impl) GetReward(ctx context.Context, db bun.IDB, id int64) (*profiledomain.Reward, error) {
	db = r.resolveDB(db)
	row := new(RewardRow)
	if err := db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reward %d: %w", id, err)
	}
	rw := row.toDomain()
	return &rw, nil
}

func (r *Impl) ListBadges(ctx context.Context, db bun.IDB, nric string) ([]profiledomain.Badge, error) {
	db = r.resolveDB(db)
	var rows []BadgeRow
	err := db.NewSelect().
		Model(&rows).
		Where("nric ILIKE ?", nric).
		OrderExpr("badge_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges for %s: %w", nric, err)
	}

	out := make([]profiledomain.Badge, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *Impl) InsertBadge(ctx context.Context, db bun.IDB, badge profiledomain.Badge) (bool, error) {
	db = r.resolveDB(db)
	row := &BadgeRow{
		NRIC:        strings.ToUpper(badge.NRIC),
		BadgeID:     badge.BadgeID,
		BadgeName:   badge.Name,
		Description: badge.Description,
	}
	result, err := db.NewInsert().
		Model(row).
		On("CONFLICT (nric, badge_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to award badge %d to %s: %w", badge.BadgeID, badge.NRIC, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
