// Package kvtest holds the behaviour every domain.KeyValue adapter must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calories/internal/domain"
)

// Run exercises open()'s store against the KeyValue contract. open must
// return a fresh, empty store; Run closes it.
func Run(t *testing.T, open func(t *testing.T) domain.KeyValue) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) {
		kv := open(t)
		defer func() { _ = kv.Close() }()

		v, ok, err := kv.Get(context.Background(), "calorieLimit")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("SetGetOverwrite", func(t *testing.T) {
		kv := open(t)
		defer func() { _ = kv.Close() }()
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, "calorieLimit", "2000"))
		v, ok, err := kv.Get(ctx, "calorieLimit")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2000", v)

		require.NoError(t, kv.Set(ctx, "calorieLimit", "1800"))
		v, _, err = kv.Get(ctx, "calorieLimit")
		require.NoError(t, err)
		assert.Equal(t, "1800", v)
	})

	t.Run("DeleteIgnoresMissing", func(t *testing.T) {
		kv := open(t)
		defer func() { _ = kv.Close() }()
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, "meals", "[]"))
		require.NoError(t, kv.Delete(ctx, "meals", "workouts"))
		_, ok, err := kv.Get(ctx, "meals")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ApplyBatch", func(t *testing.T) {
		kv := open(t)
		defer func() { _ = kv.Close() }()
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, "workouts", "[]"))
		require.NoError(t, kv.Apply(ctx,
			domain.SetOp("totalCalories", "300"),
			domain.SetOp("meals", `[{"id":"m1","name":"Eggs","calories":300}]`),
			domain.DeleteOp("workouts"),
		))

		v, ok, err := kv.Get(ctx, "totalCalories")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "300", v)

		_, ok, err = kv.Get(ctx, "workouts")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ApplyRejectsEmptyKeyAtomically", func(t *testing.T) {
		kv := open(t)
		defer func() { _ = kv.Close() }()
		ctx := context.Background()

		err := kv.Apply(ctx, domain.SetOp("totalCalories", "1"), domain.SetOp("", "x"))
		require.Error(t, err)

		_, ok, err := kv.Get(ctx, "totalCalories")
		require.NoError(t, err)
		assert.False(t, ok, "partial batch must not be visible")
	})
}
