package profilehandlers

import (
	"context"

	profileservice "github.com/Black-And-White-Club/green-quest/app/modules/profile/application"
	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/google/uuid"
)

// ------------------------
// Fake Service
// ------------------------

// FakeService answers every call with a zero success unless the matching
// Func is set. calls records operation names in order.
type FakeService struct {
	LoadProfileFunc         func(ctx context.Context, userID uuid.UUID) (results.OperationResult[profiledomain.Profile, error], error)
	LoadChallengeFunc       func(ctx context.Context, userID uuid.UUID) (results.OperationResult[profileservice.Challenge, error], error)
	SubmitAnswerFunc        func(ctx context.Context, userID uuid.UUID, questionID int64, chosen string) (results.OperationResult[profiledomain.AnswerOutcome, error], error)
	LoadRewardsFunc         func(ctx context.Context, userID uuid.UUID) (results.OperationResult[profileservice.RewardCatalog, error], error)
	RedeemRewardFunc        func(ctx context.Context, userID uuid.UUID, rewardID int64) (results.OperationResult[profileservice.Redemption, error], error)
	GetBadgesFunc           func(ctx context.Context, userID uuid.UUID) (results.OperationResult[[]profiledomain.Badge, error], error)
	CheckAndAwardBadgesFunc func(ctx context.Context, userID uuid.UUID) (results.OperationResult[[]profiledomain.Badge, error], error)
	AssignWeeklyQuizFunc    func(ctx context.Context) (results.OperationResult[profileservice.QuizAssignment, error], error)

	calls []string
}

var _ profileservice.Service = (*FakeService)(nil)

func (f *FakeService) LoadProfile(ctx context.Context, userID uuid.UUID) (results.OperationResult[profiledomain.Profile, error], error) {
	f.calls = append(f.calls, "LoadProfile")
	if f.LoadProfileFunc != nil {
		return f.LoadProfileFunc(ctx, userID)
	}
	return results.SuccessResult[profiledomain.Profile, error](profiledomain.Profile{}), nil
}

func (f *FakeService) LoadChallenge(ctx context.Context, userID uuid.UUID) (results.OperationResult[profileservice.Challenge, error], error) {
	f.calls = append(f.calls, "LoadChallenge")
	if f.LoadChallengeFunc != nil {
		return f.LoadChallengeFunc(ctx, userID)
	}
	return results.SuccessResult[profileservice.Challenge, error](profileservice.Challenge{}), nil
}

func (f *FakeService) SubmitAnswer(ctx context.Context, userID uuid.UUID, questionID int64, chosen string) (results.OperationResult[profiledomain.AnswerOutcome, error], error) {
	f.calls = append(f.calls, "SubmitAnswer")
	if f.SubmitAnswerFunc != nil {
		return f.SubmitAnswerFunc(ctx, userID, questionID, chosen)
	}
	return results.SuccessResult[profiledomain.AnswerOutcome, error](profiledomain.AnswerOutcome{}), nil
}

func (f *FakeService) LoadRewards(ctx context.Context, userID uuid.UUID) (results.OperationResult[profileservice.RewardCatalog, error], error) {
	f.calls = append(f.calls, "LoadRewards")
	if f.LoadRewardsFunc != nil {
		return f.LoadRewardsFunc(ctx, userID)
	}
	return results.SuccessResult[profileservice.RewardCatalog, error](profileservice.RewardCatalog{}), nil
}

func (f *FakeService) RedeemReward(ctx context.Context, userID uuid.UUID, rewardID int64) (results.OperationResult[profileservice.Redemption, error], error) {
	f.calls = append(f.calls, "RedeemReward")
	if f.RedeemRewardFunc != nil {
		return f.RedeemRewardFunc(ctx, userID, rewardID)
	}
	return results.SuccessResult[profileservice.Redemption, error](profileservice.Redemption{RewardID: rewardID}), nil
}

func (f *FakeService) GetBadges(ctx context.Context, userID uuid.UUID) (results.OperationResult[[]profiledomain.Badge, error], error) {
	f.calls = append(f.calls, "GetBadges")
	if f.GetBadgesFunc != nil {
		return f.GetBadgesFunc(ctx, userID)
	}
	return results.SuccessResult[[]profiledomain.Badge, error]([]profiledomain.Badge{}), nil
}

func (f *FakeService) CheckAndAwardBadges(ctx context.Context, userID uuid.UUID) (results.OperationResult[[]profiledomain.Badge, error], error) {
	f.calls = append(f.calls, "CheckAndAwardBadges")
	if f.CheckAndAwardBadgesFunc != nil {
		return f.CheckAndAwardBadgesFunc(ctx, userID)
	}
	return results.SuccessResult[[]profiledomain.Badge, error]([]profiledomain.Badge{}), nil
}

func (f *FakeService) AssignWeeklyQuiz(ctx context.Context) (results.OperationResult[profileservice.QuizAssignment, error], error) {
	f.calls = append(f.calls, "AssignWeeklyQuiz")
	if f.AssignWeeklyQuizFunc != nil {
		return f.AssignWeeklyQuizFunc(ctx)
	}
	return results.SuccessResult[profileservice.QuizAssignment, error](profileservice.QuizAssignment{}), nil
}
