package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds every call to the backing store.
const DefaultTimeout = 5000 * time.Millisecond

// ErrTimedOut matches any TimeoutError via errors.Is.
var ErrTimedOut = errors.New("timed out")

// TimeoutError reports a persistence call that did not finish in time.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %d ms", e.After.Milliseconds())
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimedOut
}

// WithTimeout runs fn under a deadline of d (DefaultTimeout when d <= 0).
// When the deadline expires the error is replaced by a *TimeoutError and the
// context handed to fn is cancelled, so an open transaction rolls back.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if d <= 0 {
		d = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	v, err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		var zero T
		return zero, &TimeoutError{After: d}
	}
	return v, err
}
