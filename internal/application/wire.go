package application

import (
	"github.com/google/wire"

	"github.com/recipechat/backend/internal/application/chat"
	"github.com/recipechat/backend/internal/application/recipe"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	recipe.ProviderSet,
	chat.ProviderSet,
)
