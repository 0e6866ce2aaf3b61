package authdomain

import (
	"errors"
	"regexp"
	"strings"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var nricPattern = regexp.MustCompile(`^[STFGstfg]\d{7}[A-Za-z]$`)

var (
	ErrMissingFields    = errors.New("nric, username, password and town are required")
	ErrInvalidNRIC      = errors.New("please enter a valid NRIC format (e.g., S1234567A)")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters long")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrNRICTaken        = errors.New("an account with this NRIC already exists")
	ErrBadCredentials   = errors.New("invalid NRIC or password")
)

// SignUp is a registration request.
type SignUp struct {
	NRIC     string `json:"nric"`
	Username string `json:"username"`
	Password string `json:"password"`
	Town     string `json:"town"`
}

// SignIn is a login request.
type SignIn struct {
	NRIC     string `json:"nric"`
	Password string `json:"password"`
}

// NormalizeNRIC trims and upper-cases an NRIC.
func NormalizeNRIC(nric string) string {
	return strings.ToUpper(strings.TrimSpace(nric))
}

// ValidNRIC reports whether nric has the S/T/F/G + 7 digits + letter shape.
func ValidNRIC(nric string) bool {
	return nricPattern.MatchString(strings.TrimSpace(nric))
}

// Validate checks the request in the order a user would fix it.
func (s SignUp) Validate() error {
	if strings.TrimSpace(s.NRIC) == "" || strings.TrimSpace(s.Username) == "" || s.Password == "" || strings.TrimSpace(s.Town) == "" {
		return ErrMissingFields
	}
	if !ValidNRIC(s.NRIC) {
		return ErrInvalidNRIC
	}
	if len([]rune(strings.TrimSpace(s.Username))) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(s.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
