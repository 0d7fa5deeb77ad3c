package recipe

import "github.com/google/wire"

// ProviderSet 菜谱入库应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewDocumentEmbedder,
	NewExtractor,
	NewIngestService,
	NewDocumentService,
)
