package chat

// Conversation 一次图执行内的消息序列，只追加
type Conversation struct {
	messages []Message
}

// NewConversation 创建对话
func NewConversation(initial ...Message) *Conversation {
	c := &Conversation{messages: make([]Message, 0, len(initial)+8)}
	c.messages = append(c.messages, initial...)
	return c
}

// Append 追加消息
func (c *Conversation) Append(msgs ...Message) {
	c.messages = append(c.messages, msgs...)
}

// Messages 返回消息副本
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len 消息数量
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last 最后一条消息
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return nil, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastHuman 最近一条用户消息
func (c *Conversation) LastHuman() (HumanMessage, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if m, ok := c.messages[i].(HumanMessage); ok {
			return m, true
		}
	}
	return HumanMessage{}, false
}

// TrailingToolMessages 末尾连续的工具消息，按原顺序返回
func (c *Conversation) TrailingToolMessages() []ToolMessage {
	start := len(c.messages)
	for start > 0 {
		if _, ok := c.messages[start-1].(ToolMessage); !ok {
			break
		}
		start--
	}
	out := make([]ToolMessage, 0, len(c.messages)-start)
	for _, m := range c.messages[start:] {
		out = append(out, m.(ToolMessage))
	}
	return out
}

// ConversationMessages 过滤出用户、系统消息以及不含工具调用的模型回复
func (c *Conversation) ConversationMessages() []Message {
	out := make([]Message, 0, len(c.messages))
	for _, m := range c.messages {
		switch v := m.(type) {
		case HumanMessage, SystemMessage:
			out = append(out, v)
		case AIMessage:
			if !v.HasToolCalls() {
				out = append(out, v)
			}
		}
	}
	return out
}
