package profiledomain

import "errors"

// Validation failures. None of them are infrastructure errors.
var (
	ErrAlreadyAnswered     = errors.New("question has already been answered")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuestionNotAssigned = errors.New("question is not part of this week's quiz")
	ErrInvalidOption       = errors.New("chosen option is not one of the question's options")
	ErrInsufficientPoints  = errors.New("not enough green points to redeem this reward")
	ErrAlreadyClaimed      = errors.New("reward has already been claimed")
	ErrRewardNotFound      = errors.New("reward not found")
)
