package authdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for credential persistence. A nil db falls
// back to the repository's connection.
type Repository interface {
	// Insert stores a new user. Returns ErrDuplicateNRIC if the NRIC is taken.
	Insert(ctx context.Context, db bun.IDB, user *User) error

	// GetByNRIC matches the upper-cased NRIC. Returns ErrNotFound if absent.
	GetByNRIC(ctx context.Context, db bun.IDB, nric string) (*User, error)

	// GetByID returns ErrNotFound if absent.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error)
}
