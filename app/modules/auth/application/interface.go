package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/green-quest/app/modules/auth/domain"
	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the authentication service interface.
type Service interface {
	// SignUp registers a user, creates their empty profile and signs them in.
	SignUp(ctx context.Context, req authdomain.SignUp) (results.OperationResult[Session, error], error)

	// SignIn checks the NRIC and password and issues a bearer token.
	SignIn(ctx context.Context, req authdomain.SignIn) (results.OperationResult[Session, error], error)

	// ValidateToken validates a bearer token and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error)

	// Me returns the account behind a validated token.
	Me(ctx context.Context, userID uuid.UUID) (results.OperationResult[Account, error], error)
}

// ProfileStore creates the profile that goes with a new account.
type ProfileStore interface {
	CreateProfile(ctx context.Context, db bun.IDB, profile profiledomain.Profile) error
}

// Session is a signed-in user's bearer token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    uuid.UUID `json:"user_id"`
	NRIC      string    `json:"nric"`
}

// Account is the public view of a user.
type Account struct {
	UserID    uuid.UUID `json:"user_id"`
	NRIC      string    `json:"nric"`
	CreatedAt time.Time `json:"created_at"`
}
