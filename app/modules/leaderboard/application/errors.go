package leaderboardservice

import "errors"

var (
	ErrTownNotRanked     = errors.New("town is not on the leaderboard")
	ErrTownNameRequired  = errors.New("town name is required")
	ErrNoReadingsInEvent = errors.New("submission carries no readings")
)
