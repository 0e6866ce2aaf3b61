package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// DefaultListLimit caps a full scoreboard load.
const DefaultListLimit = 100

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new scoreboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ListTownScores(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddomain.TownScoreRecord, error) {
	db = r.resolveDB(db)
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var rows []TownScore
	err := db.NewSelect().
		Model(&rows).
		OrderExpr("id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list town scores: %w", err)
	}

	out := make([]leaderboarddomain.TownScoreRecord, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *Impl) GetByTownName(ctx context.Context, db bun.IDB, townName string) (*leaderboarddomain.TownScoreRecord, error) {
	db = r.resolveDB(db)
	row := new(TownScore)
	err := db.NewSelect().
		Model(row).
		Where("town_name = ?", townName).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get town score for %q: %w", townName, err)
	}
	rec := row.toDomain()
	return &rec, nil
}

func (r *Impl) Insert(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) (leaderboarddomain.TownScoreRecord, error) {
	db = r.resolveDB(db)
	row := fromDomain(record)
	row.ID = 0
	row.UpdatedAt = time.Now()

	if _, err := db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return record, fmt.Errorf("failed to insert town score for %q: %w", record.TownName, err)
	}
	return row.toDomain(), nil
}

func (r *Impl) Update(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) error {
	db = r.resolveDB(db)
	row := fromDomain(record)
	row.UpdatedAt = time.Now()

	result, err := db.NewUpdate().
		Model(row).
		Column("town_name", "green_score", "gas", "electricity", "recycle", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update town score %d: %w", record.ID, err)
	}
	return requireRows(result)
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*TownScore)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete town score %d: %w", id, err)
	}
	return requireRows(result)
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
