package authservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authdomain "github.com/Black-And-White-Club/green-quest/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/jwt"
	authdb "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/repositories"
	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/persistence"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the configuration for the auth service.
type Config struct {
	TokenTTL time.Duration
	Timeout  time.Duration
}

type sessionResult = results.OperationResult[Session, error]

// service implements the Service interface.
type service struct {
	users       authdb.Repository
	profiles    ProfileStore
	jwtProvider authjwt.Provider
	db          *bun.DB
	config      Config
	logger      *slog.Logger
	tracer      trace.Tracer
	hashCost    int
}

// NewService creates a new auth service.
func NewService(
	users authdb.Repository,
	profiles ProfileStore,
	jwtProvider authjwt.Provider,
	db *bun.DB,
	config Config,
	logger *slog.Logger,
	tracer trace.Tracer,
) Service {
	return &service{
		users:       users,
		profiles:    profiles,
		jwtProvider: jwtProvider,
		db:          db,
		config:      config,
		logger:      logger,
		tracer:      tracer,
		hashCost:    bcrypt.DefaultCost,
	}
}

const DefaultTokenTTL = 24 * time.Hour

func (s *service) SignUp(ctx context.Context, req authdomain.SignUp) (sessionResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.SignUp")
	defer span.End()

	if err := req.Validate(); err != nil {
		s.logger.InfoContext(ctx, "Sign-up rejected", attr.Error(err))
		return results.FailureResult[Session, error](err), nil
	}

	nric := authdomain.NormalizeNRIC(req.NRIC)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		span.RecordError(err)
		return sessionResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &authdb.User{ID: uuid.New(), NRIC: nric, PasswordHash: hash}
	profile := profiledomain.Profile{
		Ledger:   profiledomain.Ledger{UserID: user.ID, NRIC: nric},
		Username: strings.TrimSpace(req.Username),
		Town:     strings.TrimSpace(req.Town),
	}

	_, err = persistence.WithTimeout(ctx, s.config.Timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.inTx(ctx, func(ctx context.Context, db bun.IDB) error {
			if err := s.users.Insert(ctx, db, user); err != nil {
				return err
			}
			return s.profiles.CreateProfile(ctx, db, profile)
		})
	})
	if errors.Is(err, authdb.ErrDuplicateNRIC) {
		return results.FailureResult[Session, error](authdomain.ErrNRICTaken), nil
	}
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Sign-up failed", attr.Error(err))
		return sessionResult{}, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered", attr.String("user_id", user.ID.String()))
	return s.issue(ctx, user)
}

func (s *service) SignIn(ctx context.Context, req authdomain.SignIn) (sessionResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.SignIn")
	defer span.End()

	if !authdomain.ValidNRIC(req.NRIC) || req.Password == "" {
		return results.FailureResult[Session, error](authdomain.ErrBadCredentials), nil
	}

	user, err := persistence.WithTimeout(ctx, s.config.Timeout, func(ctx context.Context) (*authdb.User, error) {
		return s.users.GetByNRIC(ctx, nil, authdomain.NormalizeNRIC(req.NRIC))
	})
	if errors.Is(err, authdb.ErrNotFound) {
		return results.FailureResult[Session, error](authdomain.ErrBadCredentials), nil
	}
	if err != nil {
		span.RecordError(err)
		return sessionResult{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		s.logger.InfoContext(ctx, "Sign-in rejected", attr.String("user_id", user.ID.String()))
		return results.FailureResult[Session, error](authdomain.ErrBadCredentials), nil
	}
	return s.issue(ctx, user)
}

func (s *service) issue(ctx context.Context, user *authdb.User) (sessionResult, error) {
	ttl := s.config.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	claims := &authdomain.Claims{UserID: user.ID, NRIC: user.NRIC}
	token, err := s.jwtProvider.GenerateToken(claims, ttl)
	if err != nil {
		return sessionResult{}, fmt.Errorf("failed to generate token: %w", err)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("user_id", user.ID.String()))
	return results.SuccessResult[Session, error](Session{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
		UserID:    user.ID,
		NRIC:      user.NRIC,
	}), nil
}

func (s *service) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	_, span := s.tracer.Start(ctx, "AuthService.ValidateToken")
	defer span.End()

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.jwtProvider.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, authjwt.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (results.OperationResult[Account, error], error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Me")
	defer span.End()

	user, err := persistence.WithTimeout(ctx, s.config.Timeout, func(ctx context.Context) (*authdb.User, error) {
		return s.users.GetByID(ctx, nil, userID)
	})
	if errors.Is(err, authdb.ErrNotFound) {
		return results.FailureResult[Account, error](ErrAccountNotFound), nil
	}
	if err != nil {
		span.RecordError(err)
		return results.OperationResult[Account, error]{}, fmt.Errorf("failed to load user: %w", err)
	}
	return results.SuccessResult[Account, error](Account{
		UserID:    user.ID,
		NRIC:      user.NRIC,
		CreatedAt: user.CreatedAt,
	}), nil
}

func (s *service) inTx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}
