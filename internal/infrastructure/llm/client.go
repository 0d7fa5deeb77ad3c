// Package llm OpenAI 兼容 Chat Completions 客户端，支持工具调用
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/recipechat/backend/internal/domain/chat"
	"github.com/recipechat/backend/internal/infrastructure/config"
	"github.com/recipechat/backend/internal/infrastructure/log"
	"github.com/recipechat/backend/internal/infrastructure/tokenizer"
)

// Client LLM Chat 客户端
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	tokens      *tokenizer.Estimator
	logger      *slog.Logger
}

var _ chat.ChatModel = (*Client)(nil)

// ChatRequest Chat API 请求
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Tools       []Tool    `json:"tools,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// Message Chat 消息
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall 模型返回的工具调用
type ToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// Tool 绑定到请求的工具
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction 工具函数描述
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ChatResponse Chat API 响应
type ChatResponse struct {
	ID      string `json:"id,omitempty"`
	Model   string `json:"model,omitempty"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// NewClient 创建 LLM 客户端
func NewClient(baseURL, apiKey, model string, temperature float64, tokens *tokenizer.Estimator) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		tokens: tokens,
		logger: log.NewModuleLogger("llm", "client"),
	}
}

// NewClientFromConfig 从配置创建客户端
func NewClientFromConfig(cfg *config.OpenAIConfig, tokens *tokenizer.Estimator) *Client {
	return NewClient(cfg.BaseURL, cfg.APIKey, cfg.ChatModel, cfg.Temperature, tokens)
}

// Invoke 不绑定工具调用模型
func (c *Client) Invoke(ctx context.Context, messages []chat.Message) (chat.AIMessage, error) {
	return c.InvokeWithTools(ctx, messages, nil)
}

// InvokeWithTools 绑定工具调用模型
func (c *Client) InvokeWithTools(ctx context.Context, messages []chat.Message, tools []chat.ToolSpec) (chat.AIMessage, error) {
	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    toWireMessages(messages),
		Temperature: &c.temperature,
	}
	for _, t := range tools {
		reqBody.Tools = append(reqBody.Tools, Tool{
			Type: "function",
			Function: ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return chat.AIMessage{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return chat.AIMessage{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	if log.IsDebugMode() {
		c.logger.Debug("Sending chat completion request",
			"url", url,
			"model", c.model,
			"messages", len(messages),
			"tools", len(tools),
			"estimated_prompt_tokens", c.estimatePromptTokens(messages),
		)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chat.AIMessage{}, fmt.Errorf("LLM API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return chat.AIMessage{}, fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return chat.AIMessage{}, fmt.Errorf("failed to decode LLM response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return chat.AIMessage{}, fmt.Errorf("LLM API returned no choices")
	}

	choice := chatResp.Choices[0]
	c.logger.Debug("Chat completion finished",
		"model", chatResp.Model,
		"finish_reason", choice.FinishReason,
		"tool_calls", len(choice.Message.ToolCalls),
		"tokens", chatResp.Usage.TotalTokens,
	)

	return fromWireMessage(choice.Message), nil
}

func (c *Client) estimatePromptTokens(messages []chat.Message) int {
	total := 0
	for _, m := range messages {
		total += c.tokens.CountTokens(m.Text())
	}
	return total
}

// toWireMessages 领域消息转换为 API 消息
func toWireMessages(messages []chat.Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		switch v := m.(type) {
		case chat.SystemMessage:
			out = append(out, Message{Role: "system", Content: v.Content})
		case chat.HumanMessage:
			out = append(out, Message{Role: "user", Content: v.Content})
		case chat.AIMessage:
			msg := Message{Role: "assistant", Content: v.Content}
			for _, tc := range v.ToolCalls {
				var wire ToolCall
				wire.ID = tc.ID
				wire.Type = "function"
				wire.Function.Name = tc.Name
				wire.Function.Arguments = string(tc.Arguments)
				msg.ToolCalls = append(msg.ToolCalls, wire)
			}
			out = append(out, msg)
		case chat.ToolMessage:
			out = append(out, Message{Role: "tool", Content: v.Content, ToolCallID: v.ToolCallID, Name: v.Name})
		}
	}
	return out
}

// fromWireMessage API 回复转换为领域消息
func fromWireMessage(m Message) chat.AIMessage {
	msg := chat.AIMessage{Content: m.Content}
	for _, tc := range m.ToolCalls {
		args := tc.Function.Arguments
		if args == "" {
			args = "{}"
		}
		msg.ToolCalls = append(msg.ToolCalls, chat.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(args),
		})
	}
	return msg
}
