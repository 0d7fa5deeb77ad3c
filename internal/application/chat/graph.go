package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recipechat/backend/internal/domain/chat"
	"github.com/recipechat/backend/internal/infrastructure/log"
)

// Graph 检索增强对话图
// refine_query -> query_or_respond -> (retrieve -> generate | 结束)
// 无状态，可被并发请求共享
type Graph struct {
	model     chat.ChatModel
	retriever *Retriever
	logger    *slog.Logger
}

// NewGraph 创建对话图
func NewGraph(model chat.ChatModel, retriever *Retriever) *Graph {
	return &Graph{
		model:     model,
		retriever: retriever,
		logger:    log.NewModuleLogger("chat", "graph"),
	}
}

// Ask 以单条用户消息运行一次图，返回最终回答
func (g *Graph) Ask(ctx context.Context, query string) (string, error) {
	conv := chat.NewConversation(chat.HumanMessage{Content: query})
	if err := g.Run(ctx, conv); err != nil {
		return "", err
	}
	last, ok := conv.Last()
	if !ok {
		return noResponse, nil
	}
	return last.Text(), nil
}

// Run 在给定对话上执行图，失败时返回 *chat.GraphExecutionError
func (g *Graph) Run(ctx context.Context, conv *chat.Conversation) error {
	logger := log.FromContext(ctx, g.logger)

	// 1. 改写问题
	if err := g.refineQuery(ctx, conv); err != nil {
		return &chat.GraphExecutionError{Node: chat.NodeRefineQuery, Err: err}
	}

	// 2. 模型决定直接回答还是调用检索
	decision, err := g.queryOrRespond(ctx, conv)
	if err != nil {
		return &chat.GraphExecutionError{Node: chat.NodeQueryOrRespond, Err: err}
	}

	switch d := decision.(type) {
	case chat.Answer:
		logger.Debug("Answered without retrieval", "chars", len(d.Text))
		return nil
	case chat.ToolRequest:
		// 3. 执行工具调用
		if err := g.retrieve(ctx, conv, d.Calls); err != nil {
			return &chat.GraphExecutionError{Node: chat.NodeRetrieve, Err: err}
		}
		// 4. 基于检索结果生成回答
		if err := g.generate(ctx, conv); err != nil {
			return &chat.GraphExecutionError{Node: chat.NodeGenerate, Err: err}
		}
		logger.Debug("Answered with retrieval", "tool_calls", len(d.Calls))
		return nil
	default:
		return &chat.GraphExecutionError{Node: chat.NodeQueryOrRespond, Err: fmt.Errorf("unexpected decision %T", decision)}
	}
}

// refineQuery 用检索到的上下文改写最新的用户问题，结果作为新的用户消息追加
func (g *Graph) refineQuery(ctx context.Context, conv *chat.Conversation) error {
	human, ok := conv.LastHuman()
	if !ok {
		return fmt.Errorf("conversation has no user message")
	}

	result, err := g.retriever.Search(ctx, human.Content)
	if err != nil {
		return err
	}
	recipeContext := noRefineContext
	if !result.IsEmpty() {
		recipeContext = strings.Join(result.Texts(), "\n\n")
	}

	refined, err := g.model.Invoke(ctx, []chat.Message{
		chat.HumanMessage{Content: refinePrompt(recipeContext, human.Content)},
	})
	if err != nil {
		return err
	}
	conv.Append(chat.HumanMessage{Content: refined.Content})
	return nil
}

// queryOrRespond 绑定检索工具调用模型
func (g *Graph) queryOrRespond(ctx context.Context, conv *chat.Conversation) (chat.Decision, error) {
	reply, err := g.model.InvokeWithTools(ctx, conv.Messages(), []chat.ToolSpec{g.retriever.Spec()})
	if err != nil {
		return nil, err
	}
	conv.Append(reply)
	return reply.Decide(), nil
}

// retrieve 按顺序执行每个工具调用，每个调用追加一条工具消息
// 未知工具或参数错误写入工具消息，不中断图
func (g *Graph) retrieve(ctx context.Context, conv *chat.Conversation, calls []chat.ToolCall) error {
	for _, call := range calls {
		msg := chat.ToolMessage{ToolCallID: call.ID, Name: call.Name}

		if call.Name != RetrieveToolName {
			msg.Content = fmt.Sprintf("Error: %s is not a valid tool, try %s.", call.Name, RetrieveToolName)
			conv.Append(msg)
			continue
		}

		query, err := parseRetrieveArgs(call.Arguments)
		if err != nil {
			msg.Content = "Error: " + err.Error()
			conv.Append(msg)
			continue
		}

		content, artifact, err := g.retriever.Retrieve(ctx, query)
		if err != nil {
			return err
		}
		msg.Content = content
		msg.Artifact = artifact
		conv.Append(msg)
	}
	return nil
}

// generate 以末尾的工具消息为上下文生成最终回答
func (g *Graph) generate(ctx context.Context, conv *chat.Conversation) error {
	toolMessages := conv.TrailingToolMessages()
	recipeContext := noToolContext
	if len(toolMessages) > 0 {
		contents := make([]string, len(toolMessages))
		for i, m := range toolMessages {
			contents[i] = m.Content
		}
		recipeContext = strings.Join(contents, "\n\n")
	}

	prompt := append([]chat.Message{chat.SystemMessage{Content: answerPrompt(recipeContext)}}, conv.ConversationMessages()...)
	reply, err := g.model.Invoke(ctx, prompt)
	if err != nil {
		return err
	}
	conv.Append(reply)
	return nil
}
