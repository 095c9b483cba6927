package context

import (
	"context"
)

type contextkey string

const (
	viewKey contextkey = "view"
)

// ContextSetView binds the browser's view id to ctx.
func ContextSetView(ctx context.Context, viewID string) context.Context {
	return context.WithValue(ctx, viewKey, viewID)
}

// ContextGetView retrieves the view id from request context.
// Returns "" if the view middleware did not run.
func ContextGetView(ctx context.Context) string {
	viewID, ok := ctx.Value(viewKey).(string)
	if !ok {
		return ""
	}
	return viewID
}
