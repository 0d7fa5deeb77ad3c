package storage

import (
	"github.com/google/wire"

	"github.com/recipechat/backend/internal/domain/recipe"
)

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideDB,           // 提供数据库连接
	NewRecipeRepository, // 菜谱记录仓储
	wire.Bind(new(recipe.RecipeRepository), new(*RecipeRepository)),
)
