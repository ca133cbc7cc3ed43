// AngelaMos | 2026
// besteffort.go

package core

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
)

// BestEffort runs fn and swallows failures that match one of the tolerated
// kinds, logging them at warn level and recording them on the active span.
// Any other failure is returned unchanged. With no tolerated kinds every
// failure is swallowed.
func BestEffort(
	ctx context.Context,
	operation string,
	fn func(ctx context.Context) error,
	tolerated ...error,
) error {
	err := fn(ctx)
	if err == nil {
		return nil
	}

	if len(tolerated) > 0 && !matchesAny(err, tolerated) {
		return err
	}

	slog.WarnContext(ctx, "best-effort step failed",
		"operation", operation,
		"error", err,
	)
	AddSpanEvent(ctx, "best_effort.skipped",
		attribute.String("operation", operation),
		attribute.String("error", err.Error()),
	)

	return nil
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
