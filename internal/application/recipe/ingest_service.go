package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domain "github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/log"
	"github.com/recipechat/backend/internal/infrastructure/tokenizer"
)

// IngestResult 一次入库的结果
type IngestResult struct {
	URL        string
	Extraction *domain.ExtractionResult
	ChunkCount int
}

// IngestService 菜谱入库服务
type IngestService struct {
	scraper   domain.Scraper
	extractor *Extractor
	docs      *DocumentEmbedder
	store     domain.VectorStore
	records   domain.RecipeRepository
	tokens    *tokenizer.Estimator
	logger    *slog.Logger
}

// NewIngestService 创建入库服务
func NewIngestService(
	scraper domain.Scraper,
	extractor *Extractor,
	docs *DocumentEmbedder,
	store domain.VectorStore,
	records domain.RecipeRepository,
	tokens *tokenizer.Estimator,
) *IngestService {
	return &IngestService{
		scraper:   scraper,
		extractor: extractor,
		docs:      docs,
		store:     store,
		records:   records,
		tokens:    tokens,
		logger:    log.NewModuleLogger("recipe", "ingest_service"),
	}
}

// Ingest 抓取、提取、切分、向量化并写入向量库
// 同一 URL 重复入库时覆盖同索引片段，并删除新版本中已不存在的尾部片段
func (s *IngestService) Ingest(ctx context.Context, url string) (*IngestResult, error) {
	ctx = log.WithRecipeURL(ctx, url)
	logger := log.FromContext(ctx, s.logger)
	start := time.Now()

	// 1. 抓取页面正文
	text, err := s.scraper.ExtractText(ctx, url)
	if err != nil {
		return nil, err
	}
	contentTokens := s.tokens.CountTokens(text)
	logger.Info("Recipe page scraped", "chars", len(text), "tokens", contentTokens)

	// 2. 字段提取
	extraction, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	// 3. 切分并向量化
	chunks, err := s.docs.BuildChunks(ctx, url, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed recipe chunks: %w", err)
	}

	// 4. 写入并清理旧版本多余的片段
	if err := s.store.Upsert(ctx, chunks); err != nil {
		return nil, fmt.Errorf("failed to store recipe chunks: %w", err)
	}
	if err := s.store.PruneURL(ctx, url, len(chunks)); err != nil {
		return nil, fmt.Errorf("failed to prune stale chunks: %w", err)
	}

	// 5. 保存提取记录，失败不影响本次入库
	record, err := domain.NewRecipeRecord(url, extraction, len(chunks))
	if err == nil {
		record.ContentTokens = contentTokens
		err = s.records.Save(record)
	}
	if err != nil {
		logger.Error("Failed to save recipe record", "error", err)
	}

	logger.Info("Recipe ingested",
		"chunks", len(chunks),
		"fields_ok", extraction.Succeeded(),
		"duration", time.Since(start),
	)

	return &IngestResult{
		URL:        url,
		Extraction: extraction,
		ChunkCount: len(chunks),
	}, nil
}
