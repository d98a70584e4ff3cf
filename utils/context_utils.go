package utils

import (
	"context"
	"time"
)

// CheckContextDone checks if a provided context has indicated it is done, and returns a boolean
// indicating if it is.
func CheckContextDone(ctx context.Context) bool {
	// Check if the context is done in a non-blocking fashion.
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// SleepCtx sleeps for the given duration unless the context is cancelled first. It returns false
// when the sleep was cut short by cancellation.
func SleepCtx(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
