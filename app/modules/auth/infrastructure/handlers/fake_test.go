package authhandlers

import (
	"context"

	authservice "github.com/Black-And-White-Club/green-quest/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/green-quest/app/modules/auth/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/google/uuid"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	SignUpFunc        func(ctx context.Context, req authdomain.SignUp) (results.OperationResult[authservice.Session, error], error)
	SignInFunc        func(ctx context.Context, req authdomain.SignIn) (results.OperationResult[authservice.Session, error], error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*authdomain.Claims, error)
	MeFunc            func(ctx context.Context, userID uuid.UUID) (results.OperationResult[authservice.Account, error], error)
}

var _ authservice.Service = (*FakeService)(nil)

func (f *FakeService) SignUp(ctx context.Context, req authdomain.SignUp) (results.OperationResult[authservice.Session, error], error) {
	if f.SignUpFunc != nil {
		return f.SignUpFunc(ctx, req)
	}
	return results.SuccessResult[authservice.Session, error](authservice.Session{Token: "t"}), nil
}

func (f *FakeService) SignIn(ctx context.Context, req authdomain.SignIn) (results.OperationResult[authservice.Session, error], error) {
	if f.SignInFunc != nil {
		return f.SignInFunc(ctx, req)
	}
	return results.SuccessResult[authservice.Session, error](authservice.Session{Token: "t"}), nil
}

func (f *FakeService) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(ctx, tokenString)
	}
	return &authdomain.Claims{}, nil
}

func (f *FakeService) Me(ctx context.Context, userID uuid.UUID) (results.OperationResult[authservice.Account, error], error) {
	if f.MeFunc != nil {
		return f.MeFunc(ctx, userID)
	}
	return results.SuccessResult[authservice.Account, error](authservice.Account{UserID: userID}), nil
}
