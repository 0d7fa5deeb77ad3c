package recipe

import "context"

// VectorStore 菜谱片段向量存储
type VectorStore interface {
	// Upsert 写入片段，ID 由 (SourceURL, ChunkIndex) 决定，已存在则覆盖
	Upsert(ctx context.Context, chunks []Chunk) error
	// QueryByEmbedding 余弦相似度 top-k，k <= 0 时取 DefaultTopK；集合为空或不存在时返回空结果
	QueryByEmbedding(ctx context.Context, vector []float32, k int) (RetrievalResult, error)
	// GetByURL 按 source_url 精确匹配，按 chunk_index 升序
	GetByURL(ctx context.Context, sourceURL string) ([]Chunk, error)
	// DeleteAll 删除整个集合，幂等
	DeleteAll(ctx context.Context) error
	// PruneURL 删除该 URL 下 chunk_index >= keep 的片段
	PruneURL(ctx context.Context, sourceURL string, keep int) error
}

// Embedder 向量化服务
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Scraper 抓取菜谱页面正文
type Scraper interface {
	ExtractText(ctx context.Context, url string) (string, error)
}

// RecipeRepository 菜谱提取记录存储
type RecipeRepository interface {
	Save(record *RecipeRecord) error
	GetByURL(sourceURL string) (*RecipeRecord, error)
	List(limit, offset int) ([]*RecipeRecord, error)
	DeleteAll() error
}
