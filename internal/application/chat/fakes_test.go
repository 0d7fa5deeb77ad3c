package chat

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/recipechat/backend/internal/domain/chat"
)

// hashEmbedder 词袋哈希向量
type hashEmbedder struct {
	fail   error
	failAt int // 第几次 EmbedQuery 失败（从 1 开始），0 表示不失败
	calls  int
}

func (e *hashEmbedder) vector(text string) []float32 {
	v := make([]float32, 32)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(w, ".,:;!?")))
		v[h.Sum32()%32]++
	}
	v[0] += 0.01
	return v
}

func (e *hashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.fail != nil {
		return nil, e.fail
	}
	if e.failAt == e.calls {
		return nil, errUpstream
	}
	return e.vector(text), nil
}

func (e *hashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if e.fail != nil {
		return nil, e.fail
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

// scriptedModel 按调用顺序返回预设回复，并记录每次调用的输入
type scriptedModel struct {
	mu        sync.Mutex
	replies   []chat.AIMessage
	errAt     int // 第几次调用失败（从 1 开始），0 表示不失败
	err       error
	calls     [][]chat.Message
	toolCalls int
}

func (m *scriptedModel) next(msgs []chat.Message) (chat.AIMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, msgs)
	n := len(m.calls)
	if m.errAt == n {
		return chat.AIMessage{}, m.err
	}
	if n > len(m.replies) {
		return chat.AIMessage{Content: "unexpected call"}, nil
	}
	return m.replies[n-1], nil
}

func (m *scriptedModel) Invoke(_ context.Context, msgs []chat.Message) (chat.AIMessage, error) {
	return m.next(msgs)
}

func (m *scriptedModel) InvokeWithTools(_ context.Context, msgs []chat.Message, tools []chat.ToolSpec) (chat.AIMessage, error) {
	m.mu.Lock()
	m.toolCalls += len(tools)
	m.mu.Unlock()
	return m.next(msgs)
}

func (m *scriptedModel) call(i int) []chat.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[i]
}

var errUpstream = errors.New("upstream down")
