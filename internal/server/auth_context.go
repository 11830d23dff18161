package server

import (
	"context"
)

type ownerContextKey struct{}

func contextWithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, ownerID)
}

func ownerIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	ownerID, ok := ctx.Value(ownerContextKey{}).(string)
	return ownerID, ok && ownerID != ""
}
