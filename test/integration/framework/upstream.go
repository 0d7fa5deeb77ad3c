//go:build integration
// +build integration

// FakeUpstream 模拟 OpenAI 兼容接口和 Tavily Extract 接口
package framework

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// FakeUpstream 假上游服务
type FakeUpstream struct {
	server *httptest.Server

	mu         sync.Mutex
	pages      map[string]string
	answer     string
	chatCalls  int
	embedCalls int
}

// NewFakeUpstream 创建并启动假上游
func NewFakeUpstream() *FakeUpstream {
	u := &FakeUpstream{
		pages:  make(map[string]string),
		answer: "Use honey instead of sugar.",
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/extract", u.extract)
	router.POST("/v1/embeddings", u.embeddings)
	router.POST("/v1/chat/completions", u.chatCompletions)

	u.server = httptest.NewServer(router)
	return u
}

// URL 上游基础 URL
func (u *FakeUpstream) URL() string {
	return u.server.URL
}

// Close 关闭上游
func (u *FakeUpstream) Close() {
	u.server.Close()
}

// SetPage 设置某个 URL 的页面正文
func (u *FakeUpstream) SetPage(url, text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pages[url] = text
}

// ChatCalls 对话接口调用次数
func (u *FakeUpstream) ChatCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.chatCalls
}

func (u *FakeUpstream) extract(c *gin.Context) {
	var req struct {
		URLs []string `json:"urls"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "urls required"})
		return
	}

	u.mu.Lock()
	text, ok := u.pages[req.URLs[0]]
	u.mu.Unlock()

	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"results":        []any{},
			"failed_results": []gin.H{{"url": req.URLs[0], "error": "page not found"}},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results": []gin.H{{"url": req.URLs[0], "raw_content": text}},
	})
}

// hashVector 词袋哈希向量
func hashVector(text string) []float32 {
	v := make([]float32, 64)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(w, ".,:;!?")))
		v[h.Sum32()%64]++
	}
	v[0] += 0.01
	return v
}

func (u *FakeUpstream) embeddings(c *gin.Context) {
	var req struct {
		Input []string `json:"input"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u.mu.Lock()
	u.embedCalls++
	u.mu.Unlock()

	data := make([]gin.H, len(req.Input))
	for i, text := range req.Input {
		data[i] = gin.H{"index": i, "embedding": hashVector(text)}
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "model": "fake-embedding"})
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (u *FakeUpstream) chatCompletions(c *gin.Context) {
	var req struct {
		Messages []wireMessage   `json:"messages"`
		Tools    json.RawMessage `json:"tools"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages required"})
		return
	}

	u.mu.Lock()
	u.chatCalls++
	answer := u.answer
	u.mu.Unlock()

	first := req.Messages[0]
	last := req.Messages[len(req.Messages)-1]

	var message gin.H
	switch {
	case len(req.Tools) > 0 && string(req.Tools) != "null":
		// 绑定工具时总是请求检索
		args, _ := json.Marshal(map[string]string{"query": last.Content})
		message = gin.H{
			"role":    "assistant",
			"content": "",
			"tool_calls": []gin.H{{
				"id":       "call_1",
				"type":     "function",
				"function": gin.H{"name": "retrieve", "arguments": string(args)},
			}},
		}
	case strings.HasPrefix(first.Content, "Given the following recipe content"):
		message = gin.H{"role": "assistant", "content": "refined: " + extractUserQuery(first.Content)}
	case first.Role == "system" && strings.Contains(first.Content, "culinary assistant"):
		message = gin.H{"role": "assistant", "content": answer}
	default:
		message = gin.H{"role": "assistant", "content": extractionReply(first.Content)}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      fmt.Sprintf("chatcmpl-%d", u.ChatCalls()),
		"model":   "fake-chat",
		"choices": []gin.H{{"index": 0, "message": message, "finish_reason": "stop"}},
	})
}

func extractUserQuery(prompt string) string {
	const marker = "User Query: "
	if i := strings.LastIndex(prompt, marker); i >= 0 {
		return strings.TrimSpace(prompt[i+len(marker):])
	}
	return prompt
}

// extractionReply 按字段提示词返回固定结构
func extractionReply(system string) string {
	switch {
	case strings.Contains(system, "structured data"):
		return "```json\n" + `{"name":"Honey Pancakes","cuisine":"American","category":"Breakfast","servings":4,` +
			`"prep_time":10,"cook_time":15,"total_time":25,"difficulty":"Easy",` +
			`"ingredients":["2 cups flour","2 eggs","1 cup milk"],"instructions":["Mix","Fry"]}` + "\n```"
	case strings.Contains(system, "kitchen equipment"):
		// 设备字段故意返回非法 JSON
		return "Here is the equipment: bowl, pan"
	case strings.Contains(system, "preparation work"):
		return `{"prep_instructions":["Measure flour","Crack eggs"]}`
	default:
		return `{"calories":350,"protein":9,"carbs":50,"fat":12}`
	}
}
