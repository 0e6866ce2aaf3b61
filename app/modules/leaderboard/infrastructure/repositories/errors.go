package leaderboarddb

import "errors"

var (
	// ErrNotFound indicates the requested scoreboard row does not exist.
	ErrNotFound = errors.New("town score not found")

	// ErrNoRowsAffected indicates an UPDATE or DELETE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
