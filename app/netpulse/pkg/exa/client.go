package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/retry"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/search"
)

const defaultBaseURL = "https://api.exa.ai/search"

// Client Exa API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	policy  retry.Policy
}

// Option 客户端选项
type Option func(*Client)

// WithBaseURL 覆盖 API 地址
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient 使用自定义 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRetry 设置重试策略
func WithRetry(p retry.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// NewClient 创建 Exa 客户端
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
		policy:  retry.DefaultPolicy,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var _ search.Searcher = (*Client)(nil)

// SearchRequest Exa 搜索请求
type SearchRequest struct {
	Query              string   `json:"query"`
	NumResults         int      `json:"numResults"`
	Category           string   `json:"category,omitempty"`
	StartPublishedDate string   `json:"startPublishedDate,omitempty"`
	EndPublishedDate   string   `json:"endPublishedDate,omitempty"`
	Contents           Contents `json:"contents"`
}

// Contents 需要返回的正文类型
type Contents struct {
	Text bool `json:"text"`
}

// SearchResponse Exa 搜索响应
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchResult Exa 单条结果
type SearchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Text          string  `json:"text"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"publishedDate"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	exaReq := SearchRequest{
		Query:      req.Query,
		NumResults: req.MaxResults,
		Contents:   Contents{Text: true},
	}
	if exaReq.NumResults == 0 {
		exaReq.NumResults = 5
	}
	if req.Topic == "news" {
		exaReq.Category = "news"
	}
	if req.StartDate != "" {
		exaReq.StartPublishedDate = req.StartDate + "T00:00:00.000Z"
	}
	if req.EndDate != "" {
		exaReq.EndPublishedDate = req.EndDate + "T23:59:59.999Z"
	}

	var resp *SearchResponse
	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		r, err := c.doSearch(ctx, exaReq)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, search.Result{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Text,
			Score:         r.Score,
			PublishedDate: r.PublishedDate,
		})
	}
	return &search.Response{Results: results}, nil
}

func (c *Client) doSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("marshal request failed: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request failed: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, &retry.StatusError{Service: "exa", Code: res.StatusCode, Body: string(body)}
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, retry.Permanent(fmt.Errorf("unmarshal response failed: %w", err))
	}
	return &searchResp, nil
}
