package infrastructure

import (
	"github.com/google/wire"

	"github.com/recipechat/backend/internal/infrastructure/config"
	"github.com/recipechat/backend/internal/infrastructure/embedding"
	"github.com/recipechat/backend/internal/infrastructure/llm"
	"github.com/recipechat/backend/internal/infrastructure/scraper"
	"github.com/recipechat/backend/internal/infrastructure/storage"
	"github.com/recipechat/backend/internal/infrastructure/tokenizer"
	"github.com/recipechat/backend/internal/infrastructure/vector"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	tokenizer.ProviderSet,
	storage.ProviderSet,
	vector.ProviderSet,
	embedding.ProviderSet,
	llm.ProviderSet,
	scraper.ProviderSet,
)
