package utils

import (
	"context"
	"strings"
	"time"
)

// WaitWith blocks for d using sleeper, or until ctx is done. A nil sleeper
// means time.Sleep.
func WaitWith(ctx context.Context, d time.Duration, sleeper func(time.Duration)) error {
	if d <= 0 {
		return nil
	}
	if sleeper == nil {
		sleeper = time.Sleep
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleeper(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// TruncateRunes cuts s to at most limit runes without adding anything.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
