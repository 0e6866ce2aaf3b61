package profileservice

import (
	"context"
	"time"

	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/google/uuid"
)

// Service defines the contract for a user's profile, weekly quiz, rewards and badges.
type Service interface {
	// LoadProfile returns the user's profile and ledger.
	LoadProfile(ctx context.Context, userID uuid.UUID) (results.OperationResult[profiledomain.Profile, error], error)

	// LoadChallenge returns the user's current quiz, answers and countdown.
	LoadChallenge(ctx context.Context, userID uuid.UUID) (results.OperationResult[Challenge, error], error)

	// SubmitAnswer records an answer and credits points for a correct one.
	SubmitAnswer(ctx context.Context, userID uuid.UUID, questionID int64, chosenOptionText string) (results.OperationResult[profiledomain.AnswerOutcome, error], error)

	// LoadRewards returns the reward catalog with the user's claim state.
	LoadRewards(ctx context.Context, userID uuid.UUID) (results.OperationResult[RewardCatalog, error], error)

	// RedeemReward debits the reward's cost and records the claim.
	RedeemReward(ctx context.Context, userID uuid.UUID, rewardID int64) (results.OperationResult[Redemption, error], error)

	// GetBadges lists the badges the user holds.
	GetBadges(ctx context.Context, userID uuid.UUID) (results.OperationResult[[]profiledomain.Badge, error], error)

	// CheckAndAwardBadges awards every badge the user newly qualifies for and
	// returns the ones written.
	CheckAndAwardBadges(ctx context.Context, userID uuid.UUID) (results.OperationResult[[]profiledomain.Badge, error], error)

	// AssignWeeklyQuiz samples a new question set and resets every profile's answers to it.
	AssignWeeklyQuiz(ctx context.Context) (results.OperationResult[QuizAssignment, error], error)
}

// Challenge is the user's view of the weekly quiz.
type Challenge struct {
	Questions  []profiledomain.ChallengeQuestion    `json:"questions"`
	Answers    map[int64]profiledomain.AnswerLetter `json:"answers"`
	GreenScore int                                  `json:"green_score"`
	Deadline   time.Time                            `json:"deadline"`
	TimeLeft   string                               `json:"time_left"`
}

// RewardView is a catalog entry with the user's claim state.
type RewardView struct {
	profiledomain.Reward
	Claimed bool `json:"claimed"`
}

// RewardCatalog is the full catalog as one user sees it.
type RewardCatalog struct {
	Rewards          []RewardView `json:"rewards"`
	ClaimedRewardIDs []int64      `json:"claimed_reward_ids"`
	GreenScore       int          `json:"green_score"`
}

// Redemption is the ledger state after a successful redemption.
type Redemption struct {
	RewardID         int64   `json:"reward_id"`
	GreenScore       int     `json:"green_score"`
	ClaimedRewardIDs []int64 `json:"claimed_reward_ids"`
}

// QuizAssignment reports a weekly rotation.
type QuizAssignment struct {
	QuestionIDs []int64 `json:"question_ids"`
	Profiles    int     `json:"profiles"`
}
