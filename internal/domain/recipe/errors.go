package recipe

import (
	"errors"
	"fmt"
)

// FetchError 抓取菜谱页面失败
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// EmbeddingServiceError 向量化服务失败
type EmbeddingServiceError struct {
	StatusCode int
	Err        error
}

func (e *EmbeddingServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("embedding service error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("embedding service error: %v", e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error { return e.Err }

// StoreUnavailableError 向量存储不可达
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("vector store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// MalformedExtractionError 某个字段组的模型输出无法解码或未通过校验
type MalformedExtractionError struct {
	Field Field
	Err   error
}

func (e *MalformedExtractionError) Error() string {
	return fmt.Sprintf("malformed %s extraction: %v", e.Field, e.Err)
}

func (e *MalformedExtractionError) Unwrap() error { return e.Err }

// ErrExtractionFailed 四个字段组全部提取失败
var ErrExtractionFailed = errors.New("all extraction fields failed")

// ErrRecordNotFound 菜谱记录不存在
var ErrRecordNotFound = errors.New("recipe record not found")
