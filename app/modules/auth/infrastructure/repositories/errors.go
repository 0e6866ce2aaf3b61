package authdb

import "errors"

var (
	// ErrNotFound indicates no user has the requested NRIC or id.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateNRIC indicates a user with the NRIC already exists.
	ErrDuplicateNRIC = errors.New("nric already registered")
)
