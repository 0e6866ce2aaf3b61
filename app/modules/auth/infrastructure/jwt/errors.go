package authjwt

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrInvalidSubject is returned when "sub" is not a user UUID. It matches ErrInvalidToken.
	ErrInvalidSubject = fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
)
