package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipechat/backend/internal/domain/recipe"
)

func TestMemoryStore_Properties(t *testing.T) {
	runStoreProperties(t, func(t *testing.T) recipe.VectorStore {
		return NewMemoryStore()
	})
}

func TestMemoryStore_Len(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, []recipe.Chunk{chunk("u1", 0, "old", 1, 0)}))
	require.NoError(t, store.Upsert(ctx, []recipe.Chunk{chunk("u1", 0, "new", 1, 0), chunk("u1", 1, "added", 0, 1)}))
	assert.Equal(t, 2, store.Len())

	require.NoError(t, store.DeleteAll(ctx))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_DeleteAllResetsDimension(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Upsert(ctx, []recipe.Chunk{chunk("u", 0, "a", 1, 0)}))
	require.NoError(t, store.DeleteAll(ctx))

	assert.NoError(t, store.Upsert(ctx, []recipe.Chunk{chunk("u", 0, "a", 1, 0, 0)}))
}

func TestMemoryStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Upsert(ctx, []recipe.Chunk{chunk("u", 0, "a", 1, 0)}))

	assert.Error(t, store.Upsert(ctx, []recipe.Chunk{chunk("u", 1, "b", 1, 0, 0)}))
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().QueryByEmbedding(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{2, 0}, []float32{5, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.Equal(t, float32(0), cosine([]float32{0, 0}, []float32{1, 1}))
}
