// Package embedding OpenAI 兼容 Embeddings API 客户端
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/config"
	"github.com/recipechat/backend/internal/infrastructure/log"
)

// maxBatchSize OpenAI embeddings API 单次最多 2048 个输入
const maxBatchSize = 2048

// Client Embedding API 客户端
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ recipe.Embedder = (*Client)(nil)

// NewClient 创建 Embedding 客户端
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		// 规范化 baseURL：移除末尾斜杠
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: log.NewModuleLogger("embedding", "client"),
	}
}

// NewClientFromConfig 从配置创建客户端
func NewClientFromConfig(cfg *config.OpenAIConfig) *Client {
	return NewClient(cfg.BaseURL, cfg.APIKey, cfg.EmbeddingModel)
}

// buildEmbeddingURL 构建 Embedding API URL
// 支持多种输入格式，智能拼接 /v1/embeddings 路径
func buildEmbeddingURL(baseURL string) string {
	// 1. 已经是完整路径
	if strings.HasSuffix(baseURL, "/embeddings") {
		return baseURL
	}

	// 2. 以 /v1 结尾，只追加 /embeddings
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL + "/embeddings"
	}

	// 3. 其他情况，追加完整的 /v1/embeddings
	return baseURL + "/v1/embeddings"
}

// EmbeddingRequest Embedding 请求
type EmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingResponse Embedding 响应
type EmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// EmbedQuery 向量化单条查询
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedDocuments 批量向量化，输出与输入一一对应
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	allVectors := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += maxBatchSize {
		end := min(i+maxBatchSize, len(texts))

		vectors, err := c.embedBatch(ctx, texts[i:end])
		if err != nil {
			c.logger.Error("Failed to embed batch",
				"batch_start", i,
				"batch_size", end-i,
				"error", err,
			)
			return nil, err
		}
		allVectors = append(allVectors, vectors...)
	}

	c.logger.Debug("Embedded texts",
		"count", len(allVectors),
		"model", c.model,
	)
	return allVectors, nil
}

// embedBatch 处理单个批次，不做重试
func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	jsonData, err := json.Marshal(EmbeddingRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, &recipe.EmbeddingServiceError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := buildEmbeddingURL(c.baseURL)

	c.logger.Debug("Sending embedding request",
		"url", url,
		"batch_size", len(texts),
		"model", c.model,
		"api_key", maskKey(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &recipe.EmbeddingServiceError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &recipe.EmbeddingServiceError{Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &recipe.EmbeddingServiceError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var embeddingResp EmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingResp); err != nil {
		return nil, &recipe.EmbeddingServiceError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	// 按 index 放置向量，保证与输入顺序一致
	vectors := make([][]float32, len(texts))
	for _, data := range embeddingResp.Data {
		if data.Index < 0 || data.Index >= len(texts) {
			return nil, &recipe.EmbeddingServiceError{Err: fmt.Errorf("embedding index %d out of range", data.Index)}
		}
		vectors[data.Index] = data.Embedding
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, &recipe.EmbeddingServiceError{Err: fmt.Errorf("missing embedding for input %d", i)}
		}
	}

	return vectors, nil
}

// IsEmbeddingError 判断是否为向量化服务错误
func IsEmbeddingError(err error) bool {
	var target *recipe.EmbeddingServiceError
	return errors.As(err, &target)
}

// maskKey API Key 脱敏
func maskKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "***"
}
