package shared

import (
	"context"
	"time"
)

type asOfContextKey struct{}

// ContextWithAsOf pins the instant derived fields and date windows are evaluated
// against for the lifetime of ctx.
func ContextWithAsOf(ctx context.Context, asOf time.Time) context.Context {
	return context.WithValue(ctx, asOfContextKey{}, asOf)
}

// AsOfFromContext returns the pinned instant, or time.Now when none was set.
func AsOfFromContext(ctx context.Context) time.Time {
	if asOf, ok := ctx.Value(asOfContextKey{}).(time.Time); ok {
		return asOf
	}
	return time.Now()
}

// Clock supplies the current instant.
type Clock func() time.Time

// SystemClock reads the wall clock.
func SystemClock() time.Time {
	return time.Now()
}
