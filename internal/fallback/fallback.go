// Package fallback guarantees that domain-facing operations resolve with a
// value of the expected shape instead of surfacing raw errors. It is the
// terminal error boundary for every fallback-wrapped facade call: callers
// observe a successful call shape even when the backend is unreachable.
//
// Substituted data is a product trade-off, not a correctness guarantee;
// callers must never assume fallback data reflects real server state.
package fallback

import (
	"context"

	"github.com/ridematch/client-go/internal/logging"
)

// WithFallback invokes op and returns its result. On any failure the error
// is logged at debug level together with opName and the fallback value is
// returned instead. This function never propagates an error.
func WithFallback[T any](ctx context.Context, log logging.Logger, opName string, op func(context.Context) (T, error), fallbackValue T) T {
	result, err := op(ctx)
	if err != nil {
		log.Debug(ctx, "operation failed, substituting fallback data", "op", opName, "error", err)
		return fallbackValue
	}
	return result
}

// Silent invokes op and returns its result, substituting defaultValue on
// any failure without logging anything. Used for fire-and-forget writes
// where failure should be invisible and low-severity.
func Silent[T any](ctx context.Context, op func(context.Context) (T, error), defaultValue T) T {
	result, err := op(ctx)
	if err != nil {
		return defaultValue
	}
	return result
}

// EnsureSlice guards against a missing collection in an otherwise
// successful response: a nil slice is replaced by the fallback. An empty
// but non-nil slice is a valid answer and passes through.
func EnsureSlice[T any](data []T, fallbackSlice []T) []T {
	if data == nil {
		return fallbackSlice
	}
	return data
}

// EnsureMap guards against a missing object in an otherwise successful
// response: a nil map is replaced by the fallback.
func EnsureMap[K comparable, V any](data map[K]V, fallbackMap map[K]V) map[K]V {
	if data == nil {
		return fallbackMap
	}
	return data
}
