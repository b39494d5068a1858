package utils

import (
	"context"
	"log"
	"time"
)

// TimeNowUTC returns the current wall-clock time in UTC. Observation batches
// and analyses are always stamped in UTC.
func TimeNowUTC() time.Time {
	return time.Now().UTC()
}

// GoSafe runs fn in a goroutine and recovers from panics so a single bad
// task cannot take down the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v", r)
			}
		}()
		fn()
	}()
}

// SleepWithContext waits for d or until ctx is done, whichever comes first.
// Returns false when the context ended the wait early.
func SleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
