package profileservice

import "errors"

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrRewardUnavailable = errors.New("reward is not available")
	ErrNoQuestions       = errors.New("no challenge questions to assign")
)
