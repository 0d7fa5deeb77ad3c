package vector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/log"
)

// payload 字段名
const (
	payloadText       = "text"
	payloadSourceURL  = "source_url"
	payloadChunkIndex = "chunk_index"
)

// scrollPageSize Scroll 每页点数
const scrollPageSize = 256

// clientProvider 提供 Qdrant 客户端（QdrantManager 实现）
type clientProvider interface {
	GetClient() *qdrant.Client
}

// QdrantStore 基于 Qdrant 的菜谱片段存储
type QdrantStore struct {
	clients    clientProvider
	collection string

	mu      sync.Mutex
	ensured bool // 集合已确认存在

	logger *slog.Logger
}

var _ recipe.VectorStore = (*QdrantStore)(nil)

// NewQdrantStore 创建 Qdrant 存储
func NewQdrantStore(manager *QdrantManager, collection string) *QdrantStore {
	return &QdrantStore{
		clients:    manager,
		collection: collection,
		logger:     log.NewModuleLogger("vector", "qdrant_store"),
	}
}

func (s *QdrantStore) client(op string) (*qdrant.Client, error) {
	c := s.clients.GetClient()
	if c == nil {
		return nil, &recipe.StoreUnavailableError{Op: op, Err: fmt.Errorf("qdrant client not initialized")}
	}
	return c, nil
}

// Upsert 写入片段，首次写入时按向量维度创建集合
func (s *QdrantStore) Upsert(ctx context.Context, chunks []recipe.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	client, err := s.client("upsert")
	if err != nil {
		return err
	}

	// 1. 确保集合存在
	if err := s.ensureCollection(ctx, client, uint64(len(chunks[0].Embedding))); err != nil {
		return err
	}

	// 2. 构建点
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %d of %s has no embedding", chunk.ChunkIndex, chunk.SourceURL)
		}
		vector := make([]float32, len(chunk.Embedding))
		copy(vector, chunk.Embedding)

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ID()),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadText:       strings.ToValidUTF8(chunk.Text, ""),
				payloadSourceURL:  chunk.SourceURL,
				payloadChunkIndex: int64(chunk.ChunkIndex),
			}),
		}
	}

	// 3. 写入
	_, err = client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		s.logger.Error("Failed to upsert chunks", "count", len(points), "error", err)
		return &recipe.StoreUnavailableError{Op: "upsert", Err: err}
	}

	s.logger.Debug("Chunks upserted", "count", len(points), "collection", s.collection)
	return nil
}

// ensureCollection 集合不存在时创建（余弦距离）
func (s *QdrantStore) ensureCollection(ctx context.Context, client *qdrant.Client, vectorSize uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensured {
		return nil
	}

	exists, err := client.CollectionExists(ctx, s.collection)
	if err != nil {
		return &recipe.StoreUnavailableError{Op: "collection_exists", Err: err}
	}
	if !exists {
		err = client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		// 并发创建时对方可能已抢先完成
		if err != nil && status.Code(err) != codes.AlreadyExists {
			return &recipe.StoreUnavailableError{Op: "create_collection", Err: err}
		}
		s.logger.Info("Collection created", "collection", s.collection, "vector_size", vectorSize)
	}

	s.ensured = true
	return nil
}

// QueryByEmbedding 余弦相似度 top-k
func (s *QdrantStore) QueryByEmbedding(ctx context.Context, vector []float32, k int) (recipe.RetrievalResult, error) {
	if k <= 0 {
		k = recipe.DefaultTopK
	}
	client, err := s.client("query")
	if err != nil {
		return recipe.RetrievalResult{}, err
	}

	limit := uint64(k)
	hits, err := client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		if isNotFound(err) {
			return recipe.RetrievalResult{}, nil
		}
		s.logger.Error("Failed to query qdrant", "error", err)
		return recipe.RetrievalResult{}, &recipe.StoreUnavailableError{Op: "query", Err: err}
	}

	result := recipe.RetrievalResult{Chunks: make([]recipe.ScoredChunk, 0, len(hits))}
	for _, hit := range hits {
		result.Chunks = append(result.Chunks, recipe.ScoredChunk{
			Chunk: chunkFromPayload(hit.GetPayload()),
			Score: hit.GetScore(),
		})
	}
	return result, nil
}

// GetByURL 按 source_url 精确匹配
func (s *QdrantStore) GetByURL(ctx context.Context, sourceURL string) ([]recipe.Chunk, error) {
	client, err := s.client("get_by_url")
	if err != nil {
		return nil, err
	}

	chunks := []recipe.Chunk{}
	var offset *qdrant.PointId
	for {
		resp, err := client.GetPointsClient().Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: s.collection,
			Filter:         urlFilter(sourceURL),
			Offset:         offset,
			Limit:          qdrant.PtrOf(uint32(scrollPageSize)),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			if isNotFound(err) {
				return []recipe.Chunk{}, nil
			}
			return nil, &recipe.StoreUnavailableError{Op: "get_by_url", Err: err}
		}

		for _, p := range resp.GetResult() {
			chunks = append(chunks, chunkFromPayload(p.GetPayload()))
		}

		// 没有下一页时结束
		offset = resp.GetNextPageOffset()
		if offset == nil {
			break
		}
	}

	recipe.SortByIndex(chunks)
	return chunks, nil
}

// DeleteAll 删除集合，集合不存在时视为成功
func (s *QdrantStore) DeleteAll(ctx context.Context) error {
	client, err := s.client("delete_all")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := client.CollectionExists(ctx, s.collection)
	if err != nil {
		return &recipe.StoreUnavailableError{Op: "collection_exists", Err: err}
	}
	if exists {
		if err := client.DeleteCollection(ctx, s.collection); err != nil && !isNotFound(err) {
			return &recipe.StoreUnavailableError{Op: "delete_collection", Err: err}
		}
		s.logger.Info("Collection deleted", "collection", s.collection)
	}
	s.ensured = false
	return nil
}

// PruneURL 删除该 URL 下 chunk_index >= keep 的片段
func (s *QdrantStore) PruneURL(ctx context.Context, sourceURL string, keep int) error {
	client, err := s.client("prune")
	if err != nil {
		return err
	}

	filter := urlFilter(sourceURL)
	filter.Must = append(filter.Must, qdrant.NewRange(payloadChunkIndex, &qdrant.Range{
		Gte: qdrant.PtrOf(float64(keep)),
	}))

	_, err = client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: filter},
		},
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return &recipe.StoreUnavailableError{Op: "prune", Err: err}
	}
	return nil
}

func urlFilter(sourceURL string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(payloadSourceURL, sourceURL),
		},
	}
}

func chunkFromPayload(payload map[string]*qdrant.Value) recipe.Chunk {
	return recipe.Chunk{
		Text:       extractStringValue(payload[payloadText]),
		SourceURL:  extractStringValue(payload[payloadSourceURL]),
		ChunkIndex: int(extractIntValue(payload[payloadChunkIndex])),
	}
}

// isNotFound 集合不存在
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// extractStringValue 从 qdrant.Value 提取字符串值
func extractStringValue(val *qdrant.Value) string {
	if val == nil {
		return ""
	}
	return val.GetStringValue()
}

// extractIntValue 从 qdrant.Value 提取整数值
func extractIntValue(val *qdrant.Value) int64 {
	if val == nil {
		return 0
	}
	if intVal := val.GetIntegerValue(); intVal != 0 {
		return intVal
	}
	return int64(val.GetDoubleValue())
}
