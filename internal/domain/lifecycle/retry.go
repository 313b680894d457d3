package lifecycle

import (
	"context"
	"errors"
)

const conflictAttempts = 3

// RetryOnConflict re-runs a read-check-write cycle when the store reports a
// stale version. The state is re-read on every attempt, so preconditions are
// evaluated against the winner of the race.
func RetryOnConflict(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < conflictAttempts; attempt++ {
		err = fn(ctx)
		if !errors.Is(err, ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
