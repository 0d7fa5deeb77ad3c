package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/recipechat/backend/internal/infrastructure/log"
	"github.com/recipechat/backend/internal/interfaces/http/response"
)

// Assistant 对话图
type Assistant interface {
	Ask(ctx context.Context, query string) (string, error)
}

// ChatHandler 对话处理器
type ChatHandler struct {
	assistant Assistant
	logger    *slog.Logger
}

// NewChatHandler 创建对话处理器
func NewChatHandler(assistant Assistant) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		logger:    log.NewModuleLogger("http", "chat_handler"),
	}
}

// Chat 基于已入库菜谱回答问题
// url 仅作为必填参数校验，检索范围是整个集合
// @Summary 菜谱问答
// @Tags 对话
// @Produce json
// @Param url query string true "菜谱页面 URL"
// @Param query query string true "用户问题"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /chat [get]
func (h *ChatHandler) Chat(c *gin.Context) {
	url := c.Query("url")
	query := c.Query("query")
	if url == "" || query == "" {
		response.BadRequest(c, "url and query are required")
		return
	}

	ctx := c.Request.Context()
	answer, err := h.assistant.Ask(ctx, query)
	if err != nil {
		log.FromContext(ctx, h.logger).Error("Chat failed", "error", err)
		response.FromError(c, err)
		return
	}

	response.Message(c, answer)
}
