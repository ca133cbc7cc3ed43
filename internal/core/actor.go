// AngelaMos | 2026
// actor.go

package core

import (
	"context"
)

type actorKey struct{}

const SystemActor = "system"

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the subject recorded for audit columns, or SystemActor
// when the call is not attributed to anyone.
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return SystemActor
}
