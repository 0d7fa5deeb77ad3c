package embedding

import (
	"github.com/google/wire"

	"github.com/recipechat/backend/internal/domain/recipe"
)

// ProviderSet Embedding ProviderSet
var ProviderSet = wire.NewSet(
	NewClientFromConfig,
	wire.Bind(new(recipe.Embedder), new(*Client)),
)
