// Package recipe 菜谱入库流程：抓取、字段提取、切分、向量化、写入
package recipe

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultSeparators 按优先级尝试的分隔符，空串表示按字符切分
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter 递归字符切分器
// 依次尝试分隔符，将片段合并到不超过 chunkSize 个字符，相邻块至少重叠 overlap 个字符
// 仅当保留的尾部加上下一片段会超出 chunkSize 时重叠才会变短
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter 创建切分器
func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", overlap, chunkSize)
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: DefaultSeparators,
	}, nil
}

// Split 切分文本，返回非空块
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	return s.splitText(text, s.separators)
}

func (s *Splitter) splitText(text string, separators []string) []string {
	// 1. 选择文本中出现的第一个分隔符
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	// 2. 足够小的片段合并，过大的片段用下一级分隔符递归
	var final, good []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if runeLen(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge 合并片段，超出 chunkSize 时输出一块并保留长度不小于 overlap 的最短尾部
func (s *Splitter) merge(pieces []string) []string {
	var docs, current []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > s.chunkSize && len(current) > 0 {
			if doc := joinTrim(current); doc != "" {
				docs = append(docs, doc)
			}
			// 1. 去掉头部片段，直到再去一片尾部就不足 overlap
			for len(current) > 0 && runeLen(joinTrim(current[1:])) >= s.overlap {
				total -= runeLen(current[0])
				current = current[1:]
			}
			// 2. 尾部加上新片段仍超出 chunkSize 时继续缩短
			for total+n > s.chunkSize && len(current) > 0 {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if doc := joinTrim(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepSeparator 切分并把分隔符保留在前一段末尾
func splitKeepSeparator(text, separator string) []string {
	var parts []string
	if separator == "" {
		parts = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
		return parts
	}
	for _, p := range strings.SplitAfter(text, separator) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func joinTrim(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
