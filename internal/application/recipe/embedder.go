package recipe

import (
	"context"
	"fmt"

	domain "github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/config"
)

// DocumentEmbedder 切分文本并生成带向量的片段
type DocumentEmbedder struct {
	splitter *Splitter
	embedder domain.Embedder
}

// NewDocumentEmbedder 创建文档向量化器
func NewDocumentEmbedder(cfg *config.SplitterConfig, embedder domain.Embedder) (*DocumentEmbedder, error) {
	splitter, err := NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	return &DocumentEmbedder{splitter: splitter, embedder: embedder}, nil
}

// Split 切分文本
func (e *DocumentEmbedder) Split(text string) []string {
	return e.splitter.Split(text)
}

// Embed 为每个文本生成向量，输出与输入一一对应
func (e *DocumentEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, &domain.EmbeddingServiceError{
			Err: fmt.Errorf("expected %d vectors, got %d", len(texts), len(vectors)),
		}
	}
	return vectors, nil
}

// EmbedQuery 单条查询向量化
func (e *DocumentEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embedder.EmbedQuery(ctx, text)
}

// BuildChunks 切分并向量化，生成带 (url, index) 身份的片段
func (e *DocumentEmbedder) BuildChunks(ctx context.Context, sourceURL, text string) ([]domain.Chunk, error) {
	texts := e.Split(text)
	if len(texts) == 0 {
		return []domain.Chunk{}, nil
	}

	vectors, err := e.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{
			Text:       t,
			SourceURL:  sourceURL,
			ChunkIndex: i,
			Embedding:  vectors[i],
		}
	}
	return chunks, nil
}
