package leaderboarddomain

import "errors"

var (
	ErrIneligible       = errors.New("record is missing electricity or gas reading")
	ErrMalformedEvent   = errors.New("malformed change event")
	ErrUnknownEventKind = errors.New("unknown change event kind")
)
