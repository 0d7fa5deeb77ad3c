package handler

import (
	"github.com/google/wire"

	appChat "github.com/recipechat/backend/internal/application/chat"
	appRecipe "github.com/recipechat/backend/internal/application/recipe"
)

// ProviderSet Handler ProviderSet
var ProviderSet = wire.NewSet(
	NewRecipeHandler,
	NewChatHandler,
	wire.Bind(new(RecipeIngester), new(*appRecipe.IngestService)),
	wire.Bind(new(DocumentReader), new(*appRecipe.DocumentService)),
	wire.Bind(new(Assistant), new(*appChat.Graph)),
)
