package energydomain

import "errors"

var (
	ErrInvalidPeriod   = errors.New("period must be YYYY.M or a relative date such as \"last month\"")
	ErrUnreadableSheet = errors.New("sheet could not be read")
	ErrNoTownColumn    = errors.New("sheet has no Town column")
	ErrPeriodNotFound  = errors.New("sheet has no column for the period")
	ErrInvalidValue    = errors.New("usage value is not a number")
)
