package util

import (
	"context"
	"fmt"
	"time"
)

// Backoff calls fn up to attempts times, doubling the delay between calls
// starting from base. It returns nil as soon as fn succeeds. A cancelled
// context aborts the wait immediately.
func Backoff(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var lastErr error
	delay := base
	for i := 0; i < attempts; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}
