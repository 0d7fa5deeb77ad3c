//go:build integration
// +build integration

// APIClient 基于 resty 封装的 HTTP 客户端
package framework

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIClient 测试用 HTTP 客户端
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAPIClient 创建测试用 HTTP 客户端
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// --- 响应结构 ---

// ErrorBody 错误响应
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// URLData 按 URL 返回数据的响应
type URLData[T any] struct {
	Data T      `json:"data"`
	URL  string `json:"url"`
	ErrorBody
}

// MessageData {response} 响应
type MessageData struct {
	Response string `json:"response"`
	ErrorBody
}

// Result 请求结果：状态码 + 解析后的响应体
type Result[T any] struct {
	Status int
	Body   T
}

// do 执行请求，成功和失败响应都解析到同一结构
func do[T any](r *resty.Request, method, path string) (*Result[T], error) {
	var body T
	resp, err := r.SetResult(&body).SetError(&body).Execute(method, path)
	if err != nil {
		return nil, err
	}
	return &Result[T]{Status: resp.StatusCode(), Body: body}, nil
}

// HealthCheck 健康检查
func (c *APIClient) HealthCheck() error {
	resp, err := c.client.R().Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode())
	}
	return nil
}

// AddRecipe POST /add_and_process_recipe
func (c *APIClient) AddRecipe(url string) (*Result[URLData[map[string]any]], error) {
	return do[URLData[map[string]any]](c.client.R().SetQueryParam("url", url), resty.MethodPost, "/add_and_process_recipe")
}

// GetDocuments GET /get_documents_for_recipe
func (c *APIClient) GetDocuments(url string) (*Result[URLData[[]string]], error) {
	return do[URLData[[]string]](c.client.R().SetQueryParam("url", url), resty.MethodGet, "/get_documents_for_recipe")
}

// Chat GET /chat
func (c *APIClient) Chat(url, query string) (*Result[MessageData], error) {
	return do[MessageData](c.client.R().SetQueryParams(map[string]string{"url": url, "query": query}), resty.MethodGet, "/chat")
}

// DeleteCollection POST /delete_collection
func (c *APIClient) DeleteCollection() (*Result[MessageData], error) {
	return do[MessageData](c.client.R(), resty.MethodPost, "/delete_collection")
}

// GetRecipe GET /recipe
func (c *APIClient) GetRecipe(url string) (*Result[URLData[map[string]any]], error) {
	return do[URLData[map[string]any]](c.client.R().SetQueryParam("url", url), resty.MethodGet, "/recipe")
}
