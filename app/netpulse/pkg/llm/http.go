package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/retry"
)

// ProviderConfig 描述如何与一个原生 HTTP LLM API 通信
type ProviderConfig struct {
	Name         string
	BaseURL      string
	APIKey       string
	AuthHeader   string            // "x-api-key" or "Authorization"
	AuthPrefix   string            // "" or "Bearer "
	ExtraHeaders map[string]string // e.g. anthropic-version

	// BuildURL 根据模型生成请求地址
	BuildURL func(cfg *ProviderConfig, req Request) string
	// BuildBody 生成请求体
	BuildBody func(cfg *ProviderConfig, req Request) map[string]any
	// ParseResponse 提取补全文本
	ParseResponse func(body []byte) (string, error)
}

// HTTPCompleter 通用的 HTTP LLM 实现
type HTTPCompleter struct {
	config *ProviderConfig
	client *http.Client
}

var _ Completer = (*HTTPCompleter)(nil)

// NewHTTPCompleter 从配置创建
func NewHTTPCompleter(cfg *ProviderConfig, hc *http.Client) *HTTPCompleter {
	if hc == nil {
		hc = &http.Client{Timeout: 120 * time.Second}
	}
	return &HTTPCompleter{config: cfg, client: hc}
}

// Name implements Completer
func (p *HTTPCompleter) Name() string {
	return p.config.Name
}

// Complete implements Completer
func (p *HTTPCompleter) Complete(ctx context.Context, req Request) (string, error) {
	body := p.config.BuildBody(p.config, req)
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BuildURL(p.config, req), bytes.NewReader(jsonBody))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	p.setHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &retry.StatusError{Service: p.config.Name, Code: resp.StatusCode, Body: string(respBody)}
	}

	content, err := p.config.ParseResponse(respBody)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("parse response: %w", err))
	}
	return content, nil
}

func (p *HTTPCompleter) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if p.config.AuthHeader != "" && p.config.APIKey != "" {
		req.Header.Set(p.config.AuthHeader, p.config.AuthPrefix+p.config.APIKey)
	}
	for k, v := range p.config.ExtraHeaders {
		req.Header.Set(k, v)
	}
}

// GeminiConfig Gemini 原生 generateContent 接口
func GeminiConfig(baseURL, apiKey string) *ProviderConfig {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &ProviderConfig{
		Name:          ProviderGemini,
		BaseURL:       strings.TrimRight(baseURL, "/"),
		APIKey:        apiKey,
		AuthHeader:    "x-goog-api-key",
		BuildURL:      buildGeminiURL,
		BuildBody:     buildGeminiBody,
		ParseResponse: parseGeminiResponse,
	}
}

// ClaudeConfig Claude 原生 messages 接口
func ClaudeConfig(baseURL, apiKey string) *ProviderConfig {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}
	return &ProviderConfig{
		Name:       ProviderClaude,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		AuthHeader: "x-api-key",
		ExtraHeaders: map[string]string{
			"anthropic-version": "2023-06-01",
		},
		BuildURL:      buildClaudeURL,
		BuildBody:     buildClaudeBody,
		ParseResponse: parseClaudeResponse,
	}
}

func buildGeminiURL(cfg *ProviderConfig, req Request) string {
	return cfg.BaseURL + "/models/" + req.Model + ":generateContent"
}

func buildClaudeURL(cfg *ProviderConfig, _ Request) string {
	return cfg.BaseURL + "/messages"
}

func buildGeminiBody(_ *ProviderConfig, req Request) map[string]any {
	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": req.Prompt}}},
		},
	}
	if req.MaxTokens > 0 {
		body["generationConfig"] = map[string]any{"maxOutputTokens": req.MaxTokens}
	}
	if req.System != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]string{{"text": req.System}},
		}
	}
	return body
}

func buildClaudeBody(_ *ProviderConfig, req Request) map[string]any {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	body := map[string]any{
		"model":      req.Model,
		"max_tokens": maxTokens,
		"messages":   []map[string]string{{"role": "user", "content": req.Prompt}},
	}
	if req.System != "" {
		body["system"] = req.System
	}
	return body
}

func parseGeminiResponse(body []byte) (string, error) {
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", nil
}

func parseClaudeResponse(body []byte) (string, error) {
	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	for _, c := range resp.Content {
		if c.Type == "" || c.Type == "text" {
			return c.Text, nil
		}
	}
	return "", nil
}
