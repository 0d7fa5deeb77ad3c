package chat

import (
	"context"
	"encoding/json"
)

// ToolCall 模型发起的一次工具调用
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"` // 模型给出的 JSON 参数
}

// ToolSpec 绑定到模型的工具描述
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Decision query_or_respond 节点的路由结果
type Decision interface {
	isDecision()
}

// Answer 模型直接给出回答
type Answer struct {
	Text string
}

func (Answer) isDecision() {}

// ToolRequest 模型请求执行一个或多个工具调用
type ToolRequest struct {
	Calls []ToolCall
}

func (ToolRequest) isDecision() {}

// ChatModel 对话模型端口
type ChatModel interface {
	Invoke(ctx context.Context, messages []Message) (AIMessage, error)
	InvokeWithTools(ctx context.Context, messages []Message, tools []ToolSpec) (AIMessage, error)
}
