package llm

import (
	"github.com/google/wire"

	"github.com/recipechat/backend/internal/domain/chat"
)

// ProviderSet 对话模型 ProviderSet
var ProviderSet = wire.NewSet(
	NewClientFromConfig,
	wire.Bind(new(chat.ChatModel), new(*Client)),
)
