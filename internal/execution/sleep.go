package execution

import (
	"context"
	"time"
)

// Sleep suspends the calling case body for d, returning early with the
// context's error if it is cancelled first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
