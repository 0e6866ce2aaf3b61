package authservice

import (
	"context"
	"io"
	"log/slog"
	"time"

	authdomain "github.com/Black-And-White-Club/green-quest/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/jwt"
	authdb "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/repositories"
	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Users Repo
// ------------------------

type FakeUserRepository struct {
	Users map[string]*authdb.User

	InsertFunc func(ctx context.Context, db bun.IDB, user *authdb.User) error
}

var _ authdb.Repository = (*FakeUserRepository)(nil)

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make(map[string]*authdb.User)}
}

func (f *FakeUserRepository) Insert(ctx context.Context, db bun.IDB, user *authdb.User) error {
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, user)
	}
	if _, ok := f.Users[user.NRIC]; ok {
		return authdb.ErrDuplicateNRIC
	}
	u := *user
	u.CreatedAt = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	f.Users[user.NRIC] = &u
	return nil
}

func (f *FakeUserRepository) GetByNRIC(ctx context.Context, db bun.IDB, nric string) (*authdb.User, error) {
	if u, ok := f.Users[nric]; ok {
		return u, nil
	}
	return nil, authdb.ErrNotFound
}

func (f *FakeUserRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*authdb.User, error) {
	for _, u := range f.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, authdb.ErrNotFound
}

// ------------------------
// Fake Profile Store
// ------------------------

type FakeProfileStore struct {
	Created []profiledomain.Profile

	CreateProfileFunc func(ctx context.Context, db bun.IDB, profile profiledomain.Profile) error
}

var _ ProfileStore = (*FakeProfileStore)(nil)

func (f *FakeProfileStore) CreateProfile(ctx context.Context, db bun.IDB, profile profiledomain.Profile) error {
	if f.CreateProfileFunc != nil {
		return f.CreateProfileFunc(ctx, db, profile)
	}
	f.Created = append(f.Created, profile)
	return nil
}

// ------------------------
// Fake JWT Provider
// ------------------------

type FakeJWTProvider struct {
	GenerateTokenFunc func(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateTokenFunc func(tokenString string) (*authdomain.Claims, error)
}

var _ authjwt.Provider = (*FakeJWTProvider)(nil)

func (f *FakeJWTProvider) GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error) {
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(claims, ttl)
	}
	return "token-" + claims.UserID.String(), nil
}

func (f *FakeJWTProvider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(tokenString)
	}
	return &authdomain.Claims{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
