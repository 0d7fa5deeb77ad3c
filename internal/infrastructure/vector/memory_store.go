package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/recipechat/backend/internal/domain/recipe"
)

// MemoryStore 内存向量存储，暴力余弦检索
// 用于测试和无需持久化的本地运行
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int                     // 0 表示集合不存在
	chunks    map[string]recipe.Chunk // chunk ID -> chunk
}

var _ recipe.VectorStore = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string]recipe.Chunk)}
}

// Upsert 写入片段
func (s *MemoryStore) Upsert(ctx context.Context, chunks []recipe.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dimension
	if dim == 0 {
		dim = len(chunks[0].Embedding)
	}
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %d of %s has no embedding", c.ChunkIndex, c.SourceURL)
		}
		if len(c.Embedding) != dim {
			return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(c.Embedding), dim)
		}
	}

	s.dimension = dim
	for _, c := range chunks {
		stored := c
		stored.Embedding = append([]float32(nil), c.Embedding...)
		s.chunks[c.ID()] = stored
	}
	return nil
}

// QueryByEmbedding 余弦相似度 top-k
func (s *MemoryStore) QueryByEmbedding(ctx context.Context, vector []float32, k int) (recipe.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return recipe.RetrievalResult{}, err
	}
	if k <= 0 {
		k = recipe.DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]recipe.ScoredChunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		scored = append(scored, recipe.ScoredChunk{Chunk: c, Score: cosine(c.Embedding, vector)})
	}
	// 分数相同时按 ID 排序，保证结果稳定
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID() < scored[j].ID()
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return recipe.RetrievalResult{Chunks: scored}, nil
}

// GetByURL 按 source_url 精确匹配
func (s *MemoryStore) GetByURL(ctx context.Context, sourceURL string) ([]recipe.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recipe.Chunk, 0)
	for _, c := range s.chunks {
		if c.SourceURL == sourceURL {
			out = append(out, c)
		}
	}
	recipe.SortByIndex(out)
	return out, nil
}

// DeleteAll 清空存储
func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = make(map[string]recipe.Chunk)
	s.dimension = 0
	return nil
}

// PruneURL 删除该 URL 下 chunk_index >= keep 的片段
func (s *MemoryStore) PruneURL(ctx context.Context, sourceURL string, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.chunks {
		if c.SourceURL == sourceURL && c.ChunkIndex >= keep {
			delete(s.chunks, id)
		}
	}
	return nil
}

// Len 片段数量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func cosine(a, b []float32) float32 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
