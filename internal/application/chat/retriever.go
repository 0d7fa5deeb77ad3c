// Package chat 检索增强对话图
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/recipechat/backend/internal/domain/chat"
	"github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/config"
)

// RetrieveToolName 绑定给模型的检索工具名
const RetrieveToolName = "retrieve"

// retrieveArgs 检索工具参数
type retrieveArgs struct {
	Query string `json:"query"`
}

// Retriever 向量检索，既作为模型工具也用于 refine_query 的上下文
type Retriever struct {
	embedder recipe.Embedder
	store    recipe.VectorStore
	topK     int
}

// NewRetriever 创建检索器
func NewRetriever(embedder recipe.Embedder, store recipe.VectorStore, cfg *config.RetrievalConfig) *Retriever {
	topK := recipe.DefaultTopK
	if cfg != nil && cfg.TopK > 0 {
		topK = cfg.TopK
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Spec 工具描述
func (r *Retriever) Spec() chat.ToolSpec {
	return chat.ToolSpec{
		Name:        RetrieveToolName,
		Description: "Retrieve information related to a query.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to look up in the stored recipes",
				},
			},
			"required": []string{"query"},
		},
	}
}

// Search 向量化查询并取 top-k
func (r *Retriever) Search(ctx context.Context, query string) (recipe.RetrievalResult, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return recipe.RetrievalResult{}, err
	}
	return r.store.QueryByEmbedding(ctx, vector, r.topK)
}

// Retrieve 执行检索工具，返回发送给模型的文本和原始结果
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, recipe.RetrievalResult, error) {
	result, err := r.Search(ctx, query)
	if err != nil {
		return "", recipe.RetrievalResult{}, err
	}
	if result.IsEmpty() {
		return noRetrievedRecipe, recipe.RetrievalResult{}, nil
	}
	return Serialize(result), result, nil
}

// Serialize 渲染检索结果："Source: {metadata}\nContent: {text}"，以空行分隔
func Serialize(result recipe.RetrievalResult) string {
	parts := make([]string, len(result.Chunks))
	for i, c := range result.Chunks {
		parts[i] = fmt.Sprintf("Source: %s\nContent: %s", c.Metadata(), c.Text)
	}
	return strings.Join(parts, "\n\n")
}

// parseRetrieveArgs 解析模型给出的工具参数
func parseRetrieveArgs(raw json.RawMessage) (string, error) {
	var args retrieveArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(args.Query) == "" {
		return "", fmt.Errorf("invalid arguments: query is required")
	}
	return args.Query, nil
}
