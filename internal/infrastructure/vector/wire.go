package vector

import (
	"github.com/google/wire"

	"github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/config"
)

// ProvideVectorStore 按配置选择向量存储后端
func ProvideVectorStore(cfg *config.Config, manager *QdrantManager) recipe.VectorStore {
	if cfg.Vector.Backend == config.VectorBackendMemory {
		return NewMemoryStore()
	}
	return NewQdrantStore(manager, cfg.Vector.Qdrant.Collection)
}

// ProviderSet 向量存储 ProviderSet
var ProviderSet = wire.NewSet(
	NewQdrantManager,
	ProvideVectorStore,
)
