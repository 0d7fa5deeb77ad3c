package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipechat/backend/internal/domain/recipe"
)

func chunk(url string, idx int, text string, vec ...float32) recipe.Chunk {
	return recipe.Chunk{SourceURL: url, ChunkIndex: idx, Text: text, Embedding: vec}
}

// storeFactory 每次调用返回一个空的独立存储
type storeFactory func(t *testing.T) recipe.VectorStore

// storeProperties 所有 VectorStore 实现都必须满足的行为
var storeProperties = []struct {
	name string
	run  func(t *testing.T, store recipe.VectorStore)
}{
	{
		name: "upsert then get_by_url returns exactly the written chunks",
		run: func(t *testing.T, store recipe.VectorStore) {
			ctx := context.Background()
			require.NoError(t, store.Upsert(ctx, []recipe.Chunk{
				chunk("u1", 1, "b", 0, 1),
				chunk("u1", 0, "a", 1, 0),
				chunk("u2", 0, "other", 1, 1),
			}))

			got, err := store.GetByURL(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "a", got[0].Text)
			assert.Equal(t, 0, got[0].ChunkIndex)
			assert.Equal(t, "b", got[1].Text)
			assert.Equal(t, "u1", got[1].SourceURL)

			none, err := store.GetByURL(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, none)
		},
	},
	{
		name: "upsert overwrites the same index",
		run: func(t *testing.T, store recipe.VectorStore) {
			ctx := context.Background()
			require.NoError(t, store.Upsert(ctx, []recipe.Chunk{chunk("u1", 0, "old", 1, 0)}))
			require.NoError(t, store.Upsert(ctx, []recipe.Chunk{chunk("u1", 0, "new", 1, 0), chunk("u1", 1, "added", 0, 1)}))

			got, err := store.GetByURL(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "new", got[0].Text)
			assert.Equal(t, "added", got[1].Text)
		},
	},
	{
		name: "get_by_url returns long pages in full",
		run: func(t *testing.T, store recipe.VectorStore) {
			ctx := context.Background()
			n := scrollPageSize*2 + 17
			chunks := make([]recipe.Chunk, n)
			for i := range chunks {
				chunks[i] = chunk("long", i, "step", 1, float32(i))
			}
			require.NoError(t, store.Upsert(ctx, chunks))

			got, err := store.GetByURL(ctx, "long")
			require.NoError(t, err)
			require.Len(t, got, n)
			for i, c := range got {
				assert.Equal(t, i, c.ChunkIndex)
			}
		},
	},
	{
		name: "query ranks by cosine similarity",
		run: func(t *testing.T, store recipe.VectorStore) {
			ctx := context.Background()
			require.NoError(t, store.Upsert(ctx, []recipe.Chunk{
				chunk("u", 0, "x-axis", 1, 0),
				chunk("u", 1, "y-axis", 0, 1),
				chunk("u", 2, "diagonal", 1, 1),
			}))

			result, err := store.QueryByEmbedding(ctx, []float32{1, 0.1}, 2)
			require.NoError(t, err)
			require.Len(t, result.Chunks, 2)
			assert.Equal(t, "x-axis", result.Chunks[0].Text)
			assert.Equal(t, "diagonal", result.Chunks[1].Text)
			assert.GreaterOrEqual(t, result.Chunks[0].Score, result.Chunks[1].Score)
		},
	},
	{
		name: "query without k uses the default",
		run: func(t *testing.T, store recipe.VectorStore) {
			ctx := context.Background()
			var chunks []recipe.Chunk
			for i := 0; i < 8; i++ {
				chunks = append(chunks, chunk("u", i, "t", 1, float32(i)))
			}
			require.NoError(t, store.Upsert(ctx, chunks))

			result, err := store.QueryByEmbedding(ctx, []float32{1, 1}, 0)
			require.NoError(t, err)
			assert.Len(t, result.Chunks, recipe.DefaultTopK)
		},
	},
	{
		name: "query on an empty store is empty",
		run: func(t *testing.T, store recipe.VectorStore) {
			result, err := store.QueryByEmbedding(context.Background(), []float32{1, 0}, 5)
			require.NoError(t, err)
			assert.True(t, result.IsEmpty())
		},
	},
	{
		name: "delete_all then query is empty and delete_all is idempotent",
		run: func(t *testing.T, store recipe.VectorStore) {
			ctx := context.Background()
			require.NoError(t, store.Upsert(ctx, []recipe.Chunk{chunk("u", 0, "a", 1, 0)}))

			require.NoError(t, store.DeleteAll(ctx))
			require.NoError(t, store.DeleteAll(ctx))

			result, err := store.QueryByEmbedding(ctx, []float32{1, 0}, 5)
			require.NoError(t, err)
			assert.True(t, result.IsEmpty())

			got, err := store.GetByURL(ctx, "u")
			require.NoError(t, err)
			assert.Empty(t, got)
		},
	},
	{
		name: "prune keeps lower indices of that url only",
		run: func(t *testing.T, store recipe.VectorStore) {
			ctx := context.Background()
			require.NoError(t, store.Upsert(ctx, []recipe.Chunk{
				chunk("u", 0, "a", 1, 0),
				chunk("u", 1, "b", 1, 0),
				chunk("u", 2, "c", 1, 0),
				chunk("other", 5, "d", 1, 0),
			}))

			require.NoError(t, store.PruneURL(ctx, "u", 1))

			got, err := store.GetByURL(ctx, "u")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "a", got[0].Text)

			other, err := store.GetByURL(ctx, "other")
			require.NoError(t, err)
			assert.Len(t, other, 1)
		},
	},
}

func runStoreProperties(t *testing.T, newStore storeFactory) {
	t.Helper()
	for _, p := range storeProperties {
		t.Run(p.name, func(t *testing.T) {
			p.run(t, newStore(t))
		})
	}
}
