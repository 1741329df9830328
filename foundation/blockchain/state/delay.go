package state

import (
	"context"
	"math/rand/v2"
	"time"
)

// Delayer defines a function that pauses for up to max before a block is
// mined. It exists for fairness between nodes that see the same
// transactions and is never required for correctness.
type Delayer func(ctx context.Context, max time.Duration) error

// RandomDelay pauses for a random duration between zero and max. It returns
// early with the context error if the context is cancelled.
func RandomDelay(ctx context.Context, max time.Duration) error {
	if max <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(rand.N(max))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay never pauses.
func NoDelay(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
