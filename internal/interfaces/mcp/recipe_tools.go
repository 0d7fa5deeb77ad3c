package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	domainRecipe "github.com/recipechat/backend/internal/domain/recipe"
)

// RetrieveContextInput 检索工具输入
type RetrieveContextInput struct {
	Query string `json:"query" jsonschema:"What to look up in the ingested recipes (required)"`
}

// RetrieveContextOutput 检索工具输出
type RetrieveContextOutput struct {
	Context    string           `json:"context" jsonschema:"Serialized passages, one Source/Content pair per passage"`
	Passages   []*RecipePassage `json:"passages" jsonschema:"Matching passages"`
	TotalCount int              `json:"total_count" jsonschema:"Number of passages returned"`
}

// RecipePassage 检索命中（精简版）
type RecipePassage struct {
	SourceURL  string `json:"source_url" jsonschema:"Recipe page URL"`
	ChunkIndex int    `json:"chunk_index" jsonschema:"Position of the passage in the recipe"`
	Relevance  string `json:"relevance" jsonschema:"Relevance level: high/medium/low"`
	Text       string `json:"text" jsonschema:"Passage text"`
}

// retrieveRecipeContextTool 检索工具实现
func (s *MCPServer) retrieveRecipeContextTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RetrieveContextInput,
) (*mcp.CallToolResult, RetrieveContextOutput, error) {
	output := RetrieveContextOutput{Passages: []*RecipePassage{}}

	if strings.TrimSpace(input.Query) == "" {
		return nil, output, fmt.Errorf("query is required")
	}

	content, result, err := s.retriever.Retrieve(ctx, input.Query)
	if err != nil {
		return nil, output, fmt.Errorf("retrieval failed: %w", err)
	}

	output.Context = content
	for _, c := range result.Chunks {
		output.Passages = append(output.Passages, &RecipePassage{
			SourceURL:  c.SourceURL,
			ChunkIndex: c.ChunkIndex,
			Relevance:  scoreToRelevance(c.Score),
			Text:       c.Text,
		})
	}
	output.TotalCount = len(output.Passages)

	// 返回 nil，SDK 会自动序列化 output
	return nil, output, nil
}

// AskAssistantInput 问答工具输入
type AskAssistantInput struct {
	Query string `json:"query" jsonschema:"Question about the ingested recipes (required)"`
}

// AskAssistantOutput 问答工具输出
type AskAssistantOutput struct {
	Answer string `json:"answer" jsonschema:"The assistant's answer"`
}

// askRecipeAssistantTool 问答工具实现
func (s *MCPServer) askRecipeAssistantTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AskAssistantInput,
) (*mcp.CallToolResult, AskAssistantOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, AskAssistantOutput{}, fmt.Errorf("query is required")
	}

	answer, err := s.assistant.Ask(ctx, input.Query)
	if err != nil {
		return nil, AskAssistantOutput{}, fmt.Errorf("assistant failed: %w", err)
	}
	return nil, AskAssistantOutput{Answer: answer}, nil
}

// ListRecipesInput 列表工具输入
type ListRecipesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of recipes, defaults to 20, max 100"`
}

// ListRecipesOutput 列表工具输出
type ListRecipesOutput struct {
	Recipes    []*RecipeSummary `json:"recipes" jsonschema:"Ingested recipes"`
	TotalCount int              `json:"total_count" jsonschema:"Number of recipes returned"`
}

// RecipeSummary 菜谱摘要
type RecipeSummary struct {
	SourceURL  string `json:"source_url" jsonschema:"Recipe page URL"`
	Name       string `json:"name,omitempty" jsonschema:"Recipe name, empty if extraction failed"`
	ChunkCount int    `json:"chunk_count" jsonschema:"Number of stored passages"`
	UpdatedAt  string `json:"updated_at" jsonschema:"Last ingest time (RFC3339)"`
}

// listRecipesTool 列表工具实现
func (s *MCPServer) listRecipesTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListRecipesInput,
) (*mcp.CallToolResult, ListRecipesOutput, error) {
	output := ListRecipesOutput{Recipes: []*RecipeSummary{}}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	records, err := s.recipes.ListRecords(limit, 0)
	if err != nil {
		return nil, output, fmt.Errorf("failed to list recipes: %w", err)
	}

	for _, rec := range records {
		output.Recipes = append(output.Recipes, &RecipeSummary{
			SourceURL:  rec.SourceURL,
			Name:       recipeName(rec),
			ChunkCount: rec.ChunkCount,
			UpdatedAt:  rec.UpdatedAt.Format(time.RFC3339),
		})
	}
	output.TotalCount = len(output.Recipes)
	return nil, output, nil
}

// recipeName 从记录中读取菜谱名称
func recipeName(rec *domainRecipe.RecipeRecord) string {
	if len(rec.Recipe) == 0 {
		return ""
	}
	var r struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Recipe, &r); err != nil {
		return ""
	}
	return r.Name
}

// scoreToRelevance 将分数转换为相关性等级
func scoreToRelevance(score float32) string {
	if score >= 0.7 {
		return "high"
	}
	if score >= 0.4 {
		return "medium"
	}
	return "low"
}
