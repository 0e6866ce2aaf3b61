package authdomain

import (
	"time"

	"github.com/google/uuid"
)

// Claims is what a signed token says about its holder.
type Claims struct {
	UserID    uuid.UUID
	NRIC      string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
