package ai

import (
	"context"
	"fmt"
)

// Source tells which strategy produced a value.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
)

// Outcome is the result of a primary/fallback run. Err carries the primary
// failure, if any, even though Value is always usable.
type Outcome[T any] struct {
	Value  T
	Source Source
	Err    error
}

// Fallback runs primary and accepts its value when validate passes. Any error,
// panic or rejected value switches to the deterministic fallback. A nil primary
// goes straight to the fallback without recording an error.
func Fallback[T any](ctx context.Context, primary func(context.Context) (T, error), validate func(T) error, fallback func() T) Outcome[T] {
	if primary == nil {
		return Outcome[T]{Value: fallback(), Source: SourceFallback}
	}

	value, err := runPrimary(ctx, primary)
	if err == nil && validate != nil {
		err = validate(value)
	}
	if err == nil {
		return Outcome[T]{Value: value, Source: SourcePrimary}
	}

	return Outcome[T]{Value: fallback(), Source: SourceFallback, Err: err}
}

func runPrimary[T any](ctx context.Context, primary func(context.Context) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("primary strategy panicked: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return value, err
	}
	return primary(ctx)
}
