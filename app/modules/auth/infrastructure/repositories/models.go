package authdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is one row of the users table.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	NRIC         string    `bun:"nric,notnull,unique"`
	PasswordHash []byte    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
