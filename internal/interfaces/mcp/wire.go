package mcp

import (
	"github.com/google/wire"

	appChat "github.com/recipechat/backend/internal/application/chat"
	appRecipe "github.com/recipechat/backend/internal/application/recipe"
)

// ProviderSet MCP 接口层 ProviderSet
var ProviderSet = wire.NewSet(
	NewServer,
	wire.Bind(new(ContextRetriever), new(*appChat.Retriever)),
	wire.Bind(new(Assistant), new(*appChat.Graph)),
	wire.Bind(new(RecipeLister), new(*appRecipe.DocumentService)),
)
