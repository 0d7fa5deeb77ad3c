package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	domainRecipe "github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/log"
)

// ContextRetriever 向量检索，返回序列化上下文和原始命中
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) (string, domainRecipe.RetrievalResult, error)
}

// Assistant 对话图
type Assistant interface {
	Ask(ctx context.Context, query string) (string, error)
}

// RecipeLister 提取记录查询
type RecipeLister interface {
	ListRecords(limit, offset int) ([]*domainRecipe.RecipeRecord, error)
}

// MCPServer MCP 服务器
type MCPServer struct {
	server    *mcp.Server
	handler   http.Handler
	retriever ContextRetriever
	assistant Assistant
	recipes   RecipeLister
}

// NewServer 创建 MCP 服务器
func NewServer(retriever ContextRetriever, assistant Assistant, recipes RecipeLister) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "recipechat",
			Version: "0.1.0",
		},
		nil, // 使用默认能力
	)

	mcpServer := &MCPServer{
		server:    server,
		retriever: retriever,
		assistant: assistant,
		recipes:   recipes,
	}

	// 注册工具：retrieve_recipe_context
	mcp.AddTool(server, &mcp.Tool{
		Name: "retrieve_recipe_context",
		Description: `Retrieve the recipe passages most similar to a query from the ingested recipes.

Parameters:
- query (string, required): Natural language description of what to look up, e.g. "how long to bake the pie"

Returns: serialized context (Source + Content per passage) and the list of matching passages with source URL, chunk index and relevance.`,
	}, mcpServer.retrieveRecipeContextTool)

	// 注册工具：ask_recipe_assistant
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_recipe_assistant",
		Description: "Ask the culinary assistant a question about the ingested recipes. Parameters: query (string, required) - the question. Returns: the assistant's answer (at most about 100 words).",
	}, mcpServer.askRecipeAssistantTool)

	// 注册工具：list_recipes
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_recipes",
		Description: "List ingested recipes, most recently updated first. Parameters: limit (int, optional) - defaults to 20, max 100. Returns: source URL, recipe name (if extracted), chunk count and last update time per recipe.",
	}, mcpServer.listRecipesTool)

	// 创建 SSE Handler
	mcpServer.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	log.NewModuleLogger("mcp", "server").Info("MCP server ready", "tools", 3)
	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
