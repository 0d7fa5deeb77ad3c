package scraper

import (
	"github.com/google/wire"

	"github.com/recipechat/backend/internal/domain/recipe"
)

// ProviderSet 抓取 ProviderSet
var ProviderSet = wire.NewSet(
	NewTavilyClient,
	wire.Bind(new(recipe.Scraper), new(*TavilyClient)),
)
