// Package response HTTP 响应与错误映射
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainChat "github.com/recipechat/backend/internal/domain/chat"
	"github.com/recipechat/backend/internal/domain/recipe"
)

// 错误码
const (
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeNotFound         = "NOT_FOUND"
	CodeFetchError       = "FETCH_ERROR"
	CodeEmbeddingError   = "EMBEDDING_ERROR"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeExtractionFailed = "EXTRACTION_FAILED"
	CodeGraphFailed      = "GRAPH_FAILED"
	CodeInternal         = "INTERNAL"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// URLDataResponse 按 URL 返回数据的响应
type URLDataResponse struct {
	Data any    `json:"data"`
	URL  string `json:"url"`
}

// MessageResponse 单字段文本响应
type MessageResponse struct {
	Response string `json:"response"`
}

// WithURL 成功响应 {data, url}
func WithURL(c *gin.Context, data any, url string) {
	c.JSON(http.StatusOK, URLDataResponse{Data: data, URL: url})
}

// Message 成功响应 {response}
func Message(c *gin.Context, text string) {
	c.JSON(http.StatusOK, MessageResponse{Response: text})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, code, message string) {
	c.JSON(httpCode, ErrorResponse{Error: message, Code: code})
}

// BadRequest 缺少或非法参数
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeInvalidArgument, message)
}

// FromError 将领域错误映射为状态码和错误码
func FromError(c *gin.Context, err error) {
	status, code := Classify(err)
	Error(c, status, code, err.Error())
}

// Classify 返回错误对应的 HTTP 状态码与错误码
func Classify(err error) (int, string) {
	var (
		fetchErr *recipe.FetchError
		embedErr *recipe.EmbeddingServiceError
		storeErr *recipe.StoreUnavailableError
		graphErr *domainChat.GraphExecutionError
	)
	switch {
	// 图错误可能包裹其他领域错误，优先判断
	case errors.As(err, &graphErr):
		return http.StatusInternalServerError, CodeGraphFailed
	case errors.Is(err, recipe.ErrRecordNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, recipe.ErrExtractionFailed):
		return http.StatusInternalServerError, CodeExtractionFailed
	case errors.As(err, &fetchErr):
		return http.StatusInternalServerError, CodeFetchError
	case errors.As(err, &embedErr):
		return http.StatusInternalServerError, CodeEmbeddingError
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, CodeStoreUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
