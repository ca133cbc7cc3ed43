// AngelaMos | 2026
// besteffort_test.go

package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestEffort(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("success passes through", func(t *testing.T) {
		called := false
		err := BestEffort(ctx, "noop", func(context.Context) error {
			called = true
			return nil
		})
		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("no tolerated kinds swallows everything", func(t *testing.T) {
		err := BestEffort(ctx, "publish", func(context.Context) error {
			return boom
		})
		assert.NoError(t, err)
	})

	t.Run("tolerated kind is swallowed", func(t *testing.T) {
		err := BestEffort(ctx, "assign default role", func(context.Context) error {
			return fmt.Errorf("lookup: %w", ErrNotFound)
		}, ErrNotFound)
		assert.NoError(t, err)
	})

	t.Run("other kinds are returned", func(t *testing.T) {
		err := BestEffort(ctx, "assign default role", func(context.Context) error {
			return boom
		}, ErrNotFound)
		assert.ErrorIs(t, err, boom)
	})
}

func TestActorFrom(t *testing.T) {
	assert.Equal(t, SystemActor, ActorFrom(context.Background()))
	assert.Equal(t, SystemActor, ActorFrom(WithActor(context.Background(), "")))
	assert.Equal(t, "user-1", ActorFrom(WithActor(context.Background(), "user-1")))
}
