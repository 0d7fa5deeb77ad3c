package recipe

import (
	"context"
	"log/slog"

	domain "github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/log"
)

// DocumentService 已入库菜谱的查询与清理
type DocumentService struct {
	store   domain.VectorStore
	records domain.RecipeRepository
	logger  *slog.Logger
}

// NewDocumentService 创建文档服务
func NewDocumentService(store domain.VectorStore, records domain.RecipeRepository) *DocumentService {
	return &DocumentService{
		store:   store,
		records: records,
		logger:  log.NewModuleLogger("recipe", "document_service"),
	}
}

// GetDocuments 返回某个 URL 的片段文本，按 chunk_index 排序
func (s *DocumentService) GetDocuments(ctx context.Context, url string) ([]string, error) {
	chunks, err := s.store.GetByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts, nil
}

// DeleteCollection 删除全部向量片段，提取记录保留
func (s *DocumentService) DeleteCollection(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}
	log.FromContext(ctx, s.logger).Info("Vector collection deleted")
	return nil
}

// GetRecord 返回某个 URL 的提取记录
func (s *DocumentService) GetRecord(url string) (*domain.RecipeRecord, error) {
	return s.records.GetByURL(url)
}

// ListRecords 分页列出提取记录
func (s *DocumentService) ListRecords(limit, offset int) ([]*domain.RecipeRecord, error) {
	return s.records.List(limit, offset)
}
