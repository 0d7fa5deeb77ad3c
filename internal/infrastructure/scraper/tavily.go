// Package scraper 通过 Tavily Extract API 抓取菜谱页面正文
package scraper

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

	"github.com/recipechat/backend/internal/domain/recipe"
	"github.com/recipechat/backend/internal/infrastructure/config"
	"github.com/recipechat/backend/internal/infrastructure/log"
)

// TavilyClient Tavily 抓取客户端
type TavilyClient struct {
	baseURL      string
	apiKey       string
	extractDepth string
	httpClient   *http.Client
	logger       *slog.Logger
}

var _ recipe.Scraper = (*TavilyClient)(nil)

// ExtractRequest Tavily extract 请求
type ExtractRequest struct {
	URLs          []string `json:"urls"`
	IncludeImages bool     `json:"include_images"`
	ExtractDepth  string   `json:"extract_depth"`
}

// ExtractResponse Tavily extract 响应
type ExtractResponse struct {
	Results []struct {
		URL        string `json:"url"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
	FailedResults []struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	} `json:"failed_results"`
}

// NewTavilyClient 创建 Tavily 客户端
func NewTavilyClient(cfg *config.TavilyConfig) *TavilyClient {
	depth := cfg.ExtractDepth
	if depth == "" {
		depth = "advanced"
	}
	return &TavilyClient{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		extractDepth: depth,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		logger: log.NewModuleLogger("scraper", "tavily"),
	}
}

// ExtractText 抓取页面并返回清洗后的纯文本
func (c *TavilyClient) ExtractText(ctx context.Context, url string) (string, error) {
	jsonData, err := json.Marshal(ExtractRequest{
		URLs:          []string{url},
		IncludeImages: false,
		ExtractDepth:  c.extractDepth,
	})
	if err != nil {
		return "", &recipe.FetchError{URL: url, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(jsonData))
	if err != nil {
		return "", &recipe.FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("Sending extract request", "url", url, "extract_depth", c.extractDepth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &recipe.FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &recipe.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("extract API error: %s", strings.TrimSpace(string(body))),
		}
	}

	var extractResp ExtractResponse
	if err := json.NewDecoder(resp.Body).Decode(&extractResp); err != nil {
		return "", &recipe.FetchError{URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(extractResp.Results) == 0 {
		reason := "no results"
		if len(extractResp.FailedResults) > 0 && extractResp.FailedResults[0].Error != "" {
			reason = extractResp.FailedResults[0].Error
		}
		return "", &recipe.FetchError{URL: url, Err: fmt.Errorf("extract returned no content: %s", reason)}
	}

	text := CleanHTML(extractResp.Results[0].RawContent)
	if text == "" {
		return "", &recipe.FetchError{URL: url, Err: fmt.Errorf("extracted page is empty")}
	}

	c.logger.Info("Page extracted", "url", url, "chars", len(text))
	return text, nil
}
