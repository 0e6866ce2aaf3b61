package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithTimeout(t *testing.T) {
	errBackend := errors.New("constraint violation")

	tests := []struct {
		name      string
		timeout   time.Duration
		fn        func(ctx context.Context) (int, error)
		want      int
		wantErr   error
		wantTimed bool
	}{
		{
			name:    "completes in time",
			timeout: time.Second,
			fn:      func(ctx context.Context) (int, error) { return 7, nil },
			want:    7,
		},
		{
			name:    "backend error passes through",
			timeout: time.Second,
			fn:      func(ctx context.Context) (int, error) { return 0, errBackend },
			wantErr: errBackend,
		},
		{
			name:    "deadline exceeded",
			timeout: 10 * time.Millisecond,
			fn: func(ctx context.Context) (int, error) {
				<-ctx.Done()
				return 99, ctx.Err()
			},
			wantTimed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithTimeout(context.Background(), tt.timeout, tt.fn)
			switch {
			case tt.wantTimed:
				assert.ErrorIs(t, err, ErrTimedOut)
				assert.Equal(t, "timed out after 10 ms", err.Error())
				assert.Zero(t, got)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestWithTimeout_DefaultsWhenUnset(t *testing.T) {
	var deadline time.Time
	_, err := WithTimeout(context.Background(), 0, func(ctx context.Context) (struct{}, error) {
		deadline, _ = ctx.Deadline()
		return struct{}{}, nil
	})
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTimeout), deadline, time.Second)
}
