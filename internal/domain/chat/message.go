// Package chat 定义对话图使用的消息、工具调用和模型端口
package chat

// Role 消息角色
type Role string

const (
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
	RoleTool   Role = "tool"
)

// Message 对话消息，取值只能是本包定义的四种变体
type Message interface {
	Role() Role
	Text() string
	isMessage()
}

// HumanMessage 用户消息
type HumanMessage struct {
	Content string
}

func (HumanMessage) Role() Role { return RoleHuman }
func (m HumanMessage) Text() string { return m.Content }
func (HumanMessage) isMessage() {}

// SystemMessage 系统提示词
type SystemMessage struct {
	Content string
}

func (SystemMessage) Role() Role { return RoleSystem }
func (m SystemMessage) Text() string { return m.Content }
func (SystemMessage) isMessage() {}

// AIMessage 模型回复，可能携带工具调用请求
type AIMessage struct {
	Content   string
	ToolCalls []ToolCall
}

func (AIMessage) Role() Role { return RoleAI }
func (m AIMessage) Text() string { return m.Content }
func (AIMessage) isMessage() {}

// HasToolCalls 是否请求了工具调用
func (m AIMessage) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Decide 将模型回复归类为直接回答或工具请求
func (m AIMessage) Decide() Decision {
	if m.HasToolCalls() {
		calls := make([]ToolCall, len(m.ToolCalls))
		copy(calls, m.ToolCalls)
		return ToolRequest{Calls: calls}
	}
	return Answer{Text: m.Content}
}

// ToolMessage 工具执行结果
type ToolMessage struct {
	Content    string
	ToolCallID string
	Name       string
	Artifact   any // 原始结果，不发送给模型
}

func (ToolMessage) Role() Role { return RoleTool }
func (m ToolMessage) Text() string { return m.Content }
func (ToolMessage) isMessage() {}
