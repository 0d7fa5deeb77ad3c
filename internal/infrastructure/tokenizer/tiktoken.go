// Package tokenizer 估算文本 token 数量，用于日志和入库统计
package tokenizer

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// 在包初始化时设置离线加载器
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// DefaultEncoding text-embedding-3-* 与 gpt-4o-mini 的兼容编码
const DefaultEncoding = "cl100k_base"

// Estimator Token 估算器
// 编码加载失败时退化为按字符数 / 4 粗略估算
type Estimator struct {
	encoding *tiktoken.Tiktoken
	mu       sync.Mutex
}

// NewEstimator 创建估算器
func NewEstimator() *Estimator {
	enc, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return &Estimator{}
	}
	return &Estimator{encoding: enc}
}

// CountTokens 计算文本的 Token 数量
func (e *Estimator) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	if e == nil || e.encoding == nil {
		return (utf8.RuneCountInString(text) + 3) / 4
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.encoding.Encode(text, nil, nil))
}

// CountTokensBatch 批量计算多个文本的 Token 数量
func (e *Estimator) CountTokensBatch(texts []string) int {
	total := 0
	for _, text := range texts {
		total += e.CountTokens(text)
	}
	return total
}

// Method 返回计算方法标识
func (e *Estimator) Method() string {
	if e == nil || e.encoding == nil {
		return "approx"
	}
	return "tiktoken"
}
