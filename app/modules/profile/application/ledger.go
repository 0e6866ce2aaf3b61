package profileservice

import (
	"context"
	"errors"

	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	profiledb "github.com/Black-And-White-Club/green-quest/app/modules/profile/infrastructure/repositories"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type (
	profileResult    = results.OperationResult[profiledomain.Profile, error]
	answerResult     = results.OperationResult[profiledomain.AnswerOutcome, error]
	redemptionResult = results.OperationResult[Redemption, error]
)

// validationErrors are returned as failures rather than errors.
var validationErrors = []error{
	profiledomain.ErrAlreadyAnswered,
	profiledomain.ErrQuestionNotFound,
	profiledomain.ErrQuestionNotAssigned,
	profiledomain.ErrInvalidOption,
	profiledomain.ErrInsufficientPoints,
	profiledomain.ErrAlreadyClaimed,
	profiledomain.ErrRewardNotFound,
	ErrProfileNotFound,
	ErrRewardUnavailable,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// LoadProfile returns the user's profile.
func (s *ProfileService) LoadProfile(ctx context.Context, userID uuid.UUID) (profileResult, error) {
	return withTelemetry(s, ctx, "LoadProfile", userID.String(), func(ctx context.Context) (profileResult, error) {
		profile, err := s.getProfile(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				return results.FailureResult[profiledomain.Profile, error](err), nil
			}
			return profileResult{}, err
		}
		return results.SuccessResult[profiledomain.Profile, error](*profile), nil
	})
}

func (s *ProfileService) getProfile(ctx context.Context, userID uuid.UUID) (*profiledomain.Profile, error) {
	profile, err := read(s, ctx, func(ctx context.Context) (*profiledomain.Profile, error) {
		return s.repo.GetProfile(ctx, nil, userID)
	})
	return profile, mapNotFound(err)
}

func mapNotFound(err error) error {
	if errors.Is(err, profiledb.ErrNotFound) {
		return ErrProfileNotFound
	}
	return err
}

// lockLedger reads the ledger inside the caller's transaction.
func (s *ProfileService) lockLedger(ctx context.Context, db bun.IDB, userID uuid.UUID) (*profiledomain.Ledger, error) {
	ledger, err := s.repo.GetLedgerForUpdate(ctx, db, userID)
	return ledger, mapNotFound(err)
}

// SubmitAnswer records the answer and persists the new ledger in one
// transaction. The outcome is only returned once the write has committed.
func (s *ProfileService) SubmitAnswer(ctx context.Context, userID uuid.UUID, questionID int64, chosenOptionText string) (answerResult, error) {
	result, err := withTelemetry(s, ctx, "SubmitAnswer", userID.String(), func(ctx context.Context) (answerResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (answerResult, error) {
			outcome, err := s.submitAnswerLogic(ctx, db, userID, questionID, chosenOptionText)
			if err != nil {
				if isValidation(err) {
					return results.FailureResult[profiledomain.AnswerOutcome, error](err), nil
				}
				return answerResult{}, err
			}
			return results.SuccessResult[profiledomain.AnswerOutcome, error](outcome), nil
		})
	})
	if err == nil && result.IsSuccess() {
		s.awardBadgesAfter(ctx, userID)
	}
	return result, err
}

func (s *ProfileService) submitAnswerLogic(ctx context.Context, db bun.IDB, userID uuid.UUID, questionID int64, chosen string) (profiledomain.AnswerOutcome, error) {
	ledger, err := s.lockLedger(ctx, db, userID)
	if err != nil {
		return profiledomain.AnswerOutcome{}, err
	}
	// Without a weekly assignment the quiz is the default set LoadChallenge shows.
	if len(ledger.QuizAnswers) == 0 {
		defaults, err := s.repo.ListQuestions(ctx, db, nil, s.questionsPerWeek)
		if err != nil {
			return profiledomain.AnswerOutcome{}, err
		}
		ids := make([]int64, len(defaults))
		for i, q := range defaults {
			ids[i] = q.ID
		}
		*ledger = ledger.AssignQuestions(ids)
	}

	question, err := s.repo.GetQuestion(ctx, db, questionID)
	if err != nil && !errors.Is(err, profiledb.ErrNotFound) {
		return profiledomain.AnswerOutcome{}, err
	}
	if err := ledger.ValidateAnswerSubmission(questionID, question); err != nil {
		return profiledomain.AnswerOutcome{}, err
	}

	next, outcome, err := ledger.SubmitAnswer(*question, chosen)
	if err != nil {
		return profiledomain.AnswerOutcome{}, err
	}
	if err := s.repo.UpdateLedger(ctx, db, next); err != nil {
		return profiledomain.AnswerOutcome{}, err
	}

	s.logger.InfoContext(ctx, "Answer recorded",
		attr.String("user_id", userID.String()),
		attr.Int64("question_id", questionID),
		attr.Bool("correct", outcome.Correct),
		attr.Int("green_score", outcome.GreenScore),
		attr.ExtractCorrelationID(ctx),
	)
	return outcome, nil
}

// RedeemReward debits the reward's cost and records the claim in one
// transaction. Score and claim list are written together or not at all.
func (s *ProfileService) RedeemReward(ctx context.Context, userID uuid.UUID, rewardID int64) (redemptionResult, error) {
	result, err := withTelemetry(s, ctx, "RedeemReward", userID.String(), func(ctx context.Context) (redemptionResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (redemptionResult, error) {
			redemption, err := s.redeemRewardLogic(ctx, db, userID, rewardID)
			if err != nil {
				if isValidation(err) {
					return results.FailureResult[Redemption, error](err), nil
				}
				return redemptionResult{}, err
			}
			return results.SuccessResult[Redemption, error](redemption), nil
		})
	})
	if err == nil && result.IsSuccess() {
		s.awardBadgesAfter(ctx, userID)
	}
	return result, err
}

func (s *ProfileService) redeemRewardLogic(ctx context.Context, db bun.IDB, userID uuid.UUID, rewardID int64) (Redemption, error) {
	ledger, err := s.lockLedger(ctx, db, userID)
	if err != nil {
		return Redemption{}, err
	}

	reward, err := s.repo.GetReward(ctx, db, rewardID)
	if errors.Is(err, profiledb.ErrNotFound) {
		return Redemption{}, profiledomain.ErrRewardNotFound
	}
	if err != nil {
		return Redemption{}, err
	}
	if !reward.Available {
		return Redemption{}, ErrRewardUnavailable
	}

	next, err := ledger.RedeemReward(*reward)
	if err != nil {
		return Redemption{}, err
	}
	if err := s.repo.UpdateLedger(ctx, db, next); err != nil {
		return Redemption{}, err
	}

	s.logger.InfoContext(ctx, "Reward redeemed",
		attr.String("user_id", userID.String()),
		attr.Int64("reward_id", rewardID),
		attr.Int("green_score", next.GreenScore),
		attr.ExtractCorrelationID(ctx),
	)
	return Redemption{
		RewardID:         rewardID,
		GreenScore:       next.GreenScore,
		ClaimedRewardIDs: next.ClaimedRewardIDs,
	}, nil
}

// LoadRewards returns the catalog with the user's claims. Claimed ids no
// longer in the catalog are left out.
func (s *ProfileService) LoadRewards(ctx context.Context, userID uuid.UUID) (results.OperationResult[RewardCatalog, error], error) {
	return withTelemetry(s, ctx, "LoadRewards", userID.String(), func(ctx context.Context) (results.OperationResult[RewardCatalog, error], error) {
		profile, err := s.getProfile(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				return results.FailureResult[RewardCatalog, error](err), nil
			}
			return results.OperationResult[RewardCatalog, error]{}, err
		}

		rewards, err := read(s, ctx, func(ctx context.Context) ([]profiledomain.Reward, error) {
			return s.repo.ListRewards(ctx, nil)
		})
		if err != nil {
			return results.OperationResult[RewardCatalog, error]{}, err
		}

		catalog := RewardCatalog{
			Rewards:          make([]RewardView, 0, len(rewards)),
			ClaimedRewardIDs: []int64{},
			GreenScore:       profile.GreenScore,
		}
		for _, rw := range rewards {
			claimed := profile.HasClaimed(rw.ID)
			if claimed {
				catalog.ClaimedRewardIDs = append(catalog.ClaimedRewardIDs, rw.ID)
			}
			catalog.Rewards = append(catalog.Rewards, RewardView{Reward: rw, Claimed: claimed})
		}
		return results.SuccessResult[RewardCatalog, error](catalog), nil
	})
}
