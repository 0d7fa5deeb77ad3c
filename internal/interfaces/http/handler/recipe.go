package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appRecipe "github.com/recipechat/backend/internal/application/recipe"
	domainRecipe "github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/log"
	"github.com/recipechat/backend/internal/interfaces/http/response"
)

// RecipeIngester 菜谱入库
type RecipeIngester interface {
	Ingest(ctx context.Context, url string) (*appRecipe.IngestResult, error)
}

// DocumentReader 已入库数据的查询与清理
type DocumentReader interface {
	GetDocuments(ctx context.Context, url string) ([]string, error)
	DeleteCollection(ctx context.Context) error
	GetRecord(url string) (*domainRecipe.RecipeRecord, error)
	ListRecords(limit, offset int) ([]*domainRecipe.RecipeRecord, error)
}

// FieldError 单个字段提取失败的标记
type FieldError struct {
	Error string `json:"error"`
}

// RecipeHandler 菜谱处理器
type RecipeHandler struct {
	ingester RecipeIngester
	docs     DocumentReader
	logger   *slog.Logger
}

// NewRecipeHandler 创建菜谱处理器
func NewRecipeHandler(ingester RecipeIngester, docs DocumentReader) *RecipeHandler {
	return &RecipeHandler{
		ingester: ingester,
		docs:     docs,
		logger:   log.NewModuleLogger("http", "recipe_handler"),
	}
}

// AddAndProcess 抓取并入库菜谱，返回四个字段组的提取结果
// @Summary 抓取并入库菜谱
// @Tags 菜谱
// @Produce json
// @Param url query string true "菜谱页面 URL"
// @Success 200 {object} response.URLDataResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /add_and_process_recipe [post]
func (h *RecipeHandler) AddAndProcess(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		response.BadRequest(c, "url is required")
		return
	}

	result, err := h.ingester.Ingest(c.Request.Context(), url)
	if err != nil {
		log.FromContext(c.Request.Context(), h.logger).Error("Failed to process recipe", "error", err)
		response.FromError(c, err)
		return
	}

	response.WithURL(c, extractionPayload(result.Extraction), url)
}

// extractionPayload 按响应键组装字段结果，失败字段替换为错误标记
func extractionPayload(result *domainRecipe.ExtractionResult) map[string]any {
	data := make(map[string]any, 4)
	for _, f := range domainRecipe.Fields() {
		if err := result.Err(f); err != nil {
			data[f.ResponseKey()] = FieldError{Error: err.Error()}
			continue
		}
		if v := result.Value(f); v != nil {
			data[f.ResponseKey()] = v
		} else {
			data[f.ResponseKey()] = nil
		}
	}
	return data
}

// GetDocuments 返回某个 URL 已入库的片段文本
// @Summary 获取菜谱片段
// @Tags 菜谱
// @Produce json
// @Param url query string true "菜谱页面 URL"
// @Success 200 {object} response.URLDataResponse{data=[]string}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /get_documents_for_recipe [get]
func (h *RecipeHandler) GetDocuments(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		response.BadRequest(c, "url is required")
		return
	}

	texts, err := h.docs.GetDocuments(c.Request.Context(), url)
	if err != nil {
		log.FromContext(c.Request.Context(), h.logger).Error("Failed to get documents", "error", err)
		response.FromError(c, err)
		return
	}

	response.WithURL(c, texts, url)
}

// DeleteCollection 清空向量集合
// @Summary 清空向量集合
// @Tags 菜谱
// @Produce json
// @Success 200 {object} response.MessageResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /delete_collection [post]
func (h *RecipeHandler) DeleteCollection(c *gin.Context) {
	if err := h.docs.DeleteCollection(c.Request.Context()); err != nil {
		log.FromContext(c.Request.Context(), h.logger).Error("Failed to delete collection", "error", err)
		response.FromError(c, err)
		return
	}
	response.Message(c, "deleted collection")
}

// GetRecord 返回某个 URL 保存的提取记录
// @Summary 获取菜谱提取记录
// @Tags 菜谱
// @Produce json
// @Param url query string true "菜谱页面 URL"
// @Success 200 {object} response.URLDataResponse{data=domainRecipe.RecipeRecord}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /recipe [get]
func (h *RecipeHandler) GetRecord(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		response.BadRequest(c, "url is required")
		return
	}

	record, err := h.docs.GetRecord(url)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.WithURL(c, record, url)
}

// ListRecords 分页列出提取记录
// @Summary 列出已入库菜谱
// @Tags 菜谱
// @Produce json
// @Param limit query int false "每页条数，默认 50"
// @Param offset query int false "偏移量"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Router /recipes [get]
func (h *RecipeHandler) ListRecords(c *gin.Context) {
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		response.BadRequest(c, "limit must be a non-negative integer")
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		response.BadRequest(c, "offset must be a non-negative integer")
		return
	}

	records, err := h.docs.ListRecords(limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records, "count": len(records)})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
