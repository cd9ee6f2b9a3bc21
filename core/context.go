package core

import "context"

// Context keys for build options
type contextKey string

const (
	quietKey contextKey = "quiet"
)

// WithQuiet marks the context so that builds print nothing to stdout
func WithQuiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey, true)
}

// shouldBeQuiet returns whether console output is suppressed
func shouldBeQuiet(ctx context.Context) bool {
	val := ctx.Value(quietKey)
	if val == nil {
		return false // default: print summary
	}
	quiet, ok := val.(bool)
	return ok && quiet
}
