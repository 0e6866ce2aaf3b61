package authdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolation = "23505"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new users repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Insert(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	user.NRIC = strings.ToUpper(user.NRIC)

	if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
			return ErrDuplicateNRIC
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *Impl) GetByNRIC(ctx context.Context, db bun.IDB, nric string) (*User, error) {
	return r.getOne(ctx, r.resolveDB(db), "nric = ?", strings.ToUpper(nric))
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, r.resolveDB(db), "id = ?", id)
}

func (r *Impl) getOne(ctx context.Context, db bun.IDB, where string, arg any) (*User, error) {
	user := new(User)
	if err := db.NewSelect().Model(user).Where(where, arg).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
