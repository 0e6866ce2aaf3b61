package profiledomain

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Ledger is a user's score, quiz answers and claimed rewards. Its methods never
// mutate the receiver; they return the next ledger for the caller to persist.
type Ledger struct {
	UserID           uuid.UUID              `json:"user_id"`
	NRIC             string                 `json:"nric"`
	GreenScore       int                    `json:"green_score"`
	QuizAnswers      map[int64]AnswerLetter `json:"quiz_answers"`
	ClaimedRewardIDs []int64                `json:"claimed_reward_ids"`
}

// AnswerOutcome describes a recorded answer.
type AnswerOutcome struct {
	QuestionID    int64        `json:"question_id"`
	Letter        AnswerLetter `json:"letter"`
	Correct       bool         `json:"correct"`
	PointsAwarded int          `json:"points_awarded"`
	GreenScore    int          `json:"green_score"`
}

// Clone returns a deep copy of l.
func (l Ledger) Clone() Ledger {
	out := l
	out.QuizAnswers = maps.Clone(l.QuizAnswers)
	out.ClaimedRewardIDs = slices.Clone(l.ClaimedRewardIDs)
	return out
}

// Answered reports whether questionID already has a recorded letter.
func (l Ledger) Answered(questionID int64) bool {
	return l.QuizAnswers[questionID] != AnswerNone
}

// HasClaimed reports whether rewardID was already redeemed.
func (l Ledger) HasClaimed(rewardID int64) bool {
	return slices.Contains(l.ClaimedRewardIDs, rewardID)
}

// Assigned reports whether questionID is part of the current quiz. A ledger
// without a quiz accepts any question.
func (l Ledger) Assigned(questionID int64) bool {
	if len(l.QuizAnswers) == 0 {
		return true
	}
	_, ok := l.QuizAnswers[questionID]
	return ok
}

// ValidateAnswerSubmission checks that question is the one being answered,
// that it belongs to the current quiz and that it has not been answered yet.
func (l Ledger) ValidateAnswerSubmission(questionID int64, question *ChallengeQuestion) error {
	if question == nil || question.ID != questionID {
		return ErrQuestionNotFound
	}
	if !l.Assigned(questionID) {
		return ErrQuestionNotAssigned
	}
	if l.Answered(questionID) {
		return ErrAlreadyAnswered
	}
	return nil
}

// SubmitAnswer records the letter for chosenOptionText. A correct answer adds
// the question's points; a wrong one is recorded without changing the score.
func (l Ledger) SubmitAnswer(question ChallengeQuestion, chosenOptionText string) (Ledger, AnswerOutcome, error) {
	if err := l.ValidateAnswerSubmission(question.ID, &question); err != nil {
		return l, AnswerOutcome{}, err
	}
	letter, ok := question.LetterFor(chosenOptionText)
	if !ok {
		return l, AnswerOutcome{}, ErrInvalidOption
	}

	next := l.Clone()
	if next.QuizAnswers == nil {
		next.QuizAnswers = make(map[int64]AnswerLetter, 1)
	}
	next.QuizAnswers[question.ID] = letter

	outcome := AnswerOutcome{QuestionID: question.ID, Letter: letter}
	if chosenOptionText == question.Answer {
		outcome.Correct = true
		outcome.PointsAwarded = question.Value()
		next.GreenScore += outcome.PointsAwarded
	}
	outcome.GreenScore = next.GreenScore
	return next, outcome, nil
}

// ValidateRedemption checks the score before the claim list.
func (l Ledger) ValidateRedemption(reward Reward) error {
	if reward.PointsRequired > l.GreenScore {
		return ErrInsufficientPoints
	}
	if l.HasClaimed(reward.ID) {
		return ErrAlreadyClaimed
	}
	return nil
}

// RedeemReward debits the reward's cost and records its id.
func (l Ledger) RedeemReward(reward Reward) (Ledger, error) {
	if err := l.ValidateRedemption(reward); err != nil {
		return l, err
	}
	next := l.Clone()
	next.GreenScore -= reward.PointsRequired
	next.ClaimedRewardIDs = append(next.ClaimedRewardIDs, reward.ID)
	return next, nil
}

// AssignQuestions resets the answers to questionIDs, all unanswered.
func (l Ledger) AssignQuestions(questionIDs []int64) Ledger {
	next := l.Clone()
	next.QuizAnswers = make(map[int64]AnswerLetter, len(questionIDs))
	for _, id := range questionIDs {
		next.QuizAnswers[id] = AnswerNone
	}
	return next
}

// AssignedQuestionIDs returns the ids of the current quiz in ascending order.
func (l Ledger) AssignedQuestionIDs() []int64 {
	return slices.Sorted(maps.Keys(l.QuizAnswers))
}
