package authhandlers

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// CurrentUser is the signed-in user a request acts for.
type CurrentUser struct {
	ID   uuid.UUID `json:"user_id"`
	NRIC string    `json:"nric"`
}

// WithUser stores user on ctx.
func WithUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext returns the user stored by BearerAuth.
func UserFromContext(ctx context.Context) (CurrentUser, bool) {
	user, ok := ctx.Value(ctxKey{}).(CurrentUser)
	return user, ok
}
