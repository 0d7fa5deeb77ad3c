// Package recipe 定义菜谱入库与检索的领域模型和端口
package recipe

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// DefaultTopK 默认检索数量
const DefaultTopK = 5

// chunkNamespace 生成 chunk point ID 的 UUIDv5 命名空间
var chunkNamespace = uuid.MustParse("5b0f3c1e-8d1a-4f4e-9b43-7a2f4f0c9e11")

// Chunk 菜谱文本片段
// 身份由 (SourceURL, ChunkIndex) 决定，写入后不可变
type Chunk struct {
	Text       string    `json:"text"`
	SourceURL  string    `json:"source_url"`
	ChunkIndex int       `json:"chunk_index"`
	Embedding  []float32 `json:"-"`
}

// ID 返回由 (SourceURL, ChunkIndex) 派生的确定性 ID
func (c Chunk) ID() string {
	return ChunkID(c.SourceURL, c.ChunkIndex)
}

// Metadata 返回片段元数据
func (c Chunk) Metadata() ChunkMetadata {
	return ChunkMetadata{SourceURL: c.SourceURL, ChunkIndex: c.ChunkIndex}
}

// ChunkID 计算片段 ID（UUIDv5，同一 URL + 索引始终得到同一 ID）
func ChunkID(sourceURL string, chunkIndex int) string {
	name := sourceURL + "_" + strconv.Itoa(chunkIndex)
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}

// ChunkMetadata 片段元数据
type ChunkMetadata struct {
	SourceURL  string `json:"source_url"`
	ChunkIndex int    `json:"chunk_index"`
}

// String 渲染为检索上下文中的 Source 字段
func (m ChunkMetadata) String() string {
	return fmt.Sprintf("{source_url: %s, chunk_index: %d}", m.SourceURL, m.ChunkIndex)
}

// ScoredChunk 带相似度分数的检索命中
type ScoredChunk struct {
	Chunk
	Score float32 `json:"score"`
}

// RetrievalResult 一次相似度查询的结果，不持久化
type RetrievalResult struct {
	Chunks []ScoredChunk `json:"chunks"`
}

// IsEmpty 是否没有命中
func (r RetrievalResult) IsEmpty() bool {
	return len(r.Chunks) == 0
}

// Texts 返回命中片段的文本，保持检索顺序
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		texts[i] = c.Text
	}
	return texts
}

// SortByIndex 按 ChunkIndex 升序排列
func SortByIndex(chunks []Chunk) {
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
}
