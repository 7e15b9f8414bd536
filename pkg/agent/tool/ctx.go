package tool

import (
	"context"

	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

// UpdateFunc receives progress messages posted by tools while they run
type UpdateFunc func(ctx context.Context, message string)

type contextKey struct{}

// WithUpdate returns a new context that carries the given UpdateFunc.
func WithUpdate(ctx context.Context, fn UpdateFunc) context.Context {
	return context.WithValue(ctx, contextKey{}, fn)
}

// Update reports a progress message. Without an UpdateFunc in ctx the message is logged at debug level.
func Update(ctx context.Context, message string) {
	if fn, ok := ctx.Value(contextKey{}).(UpdateFunc); ok {
		fn(ctx, message)
		return
	}
	logging.From(ctx).Debug("tool progress", "message", message)
}

// IntArg reads an optional integer argument. JSON numbers arrive as float64.
func IntArg(args map[string]any, key string, def int) (int, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, true
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// StringArg reads a string argument, "" when absent
func StringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
