package llm

import (
	"context"
	"fmt"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/retry"
)

// Provider names
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderCustom   = "custom"
	ProviderGemini   = "gemini"
	ProviderClaude   = "claude"
)

var defaultModels = map[string]Models{
	ProviderOpenAI:   {Fast: "gpt-4o-mini", Deep: "gpt-4o"},
	ProviderDeepSeek: {Fast: "deepseek-chat", Deep: "deepseek-reasoner"},
	ProviderGemini:   {Fast: "gemini-2.5-flash", Deep: "gemini-2.5-pro"},
	ProviderClaude:   {Fast: "claude-3-5-haiku-latest", Deep: "claude-sonnet-4-5"},
}

var defaultBaseURLs = map[string]string{
	ProviderOpenAI:   "https://api.openai.com/v1",
	ProviderDeepSeek: "https://api.deepseek.com/v1",
}

// DefaultModels 返回 provider 的默认模型分级
func DefaultModels(provider string) Models {
	return defaultModels[provider]
}

// NewCompleter 根据配置创建具体 provider 的实现。
// 缺少 API Key 时返回 *config.MissingKeyError。
func NewCompleter(ctx context.Context, cfg *config.LLMConfig) (Completer, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI, ProviderDeepSeek, ProviderCustom:
		if cfg.APIKey == "" {
			return nil, &config.MissingKeyError{Key: "LLM_API_KEY"}
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultBaseURLs[provider]
		}
		if baseURL == "" {
			return nil, &config.MissingKeyError{Key: "LLM_BASE_URL"}
		}
		models := resolveModels(provider, cfg)
		return NewOpenAICompleter(ctx, provider, baseURL, cfg.APIKey, models.Deep)

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, &config.MissingKeyError{Key: "LLM_API_KEY"}
		}
		return NewHTTPCompleter(GeminiConfig(cfg.BaseURL, cfg.APIKey), nil), nil

	case ProviderClaude:
		if cfg.APIKey == "" {
			return nil, &config.MissingKeyError{Key: "LLM_API_KEY"}
		}
		return NewHTTPCompleter(ClaudeConfig(cfg.BaseURL, cfg.APIKey), nil), nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

// New 根据完整配置创建带分级、限流与重试的客户端
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	completer, err := NewCompleter(ctx, &cfg.LLM)
	if err != nil {
		return nil, err
	}

	return NewClient(completer, resolveModels(completer.Name(), &cfg.LLM),
		WithLimiter(NewLimiter(cfg.Concurrency.RPM, cfg.Concurrency.QPS)),
		WithRetry(retry.NewPolicy(cfg.Retry.Attempts, cfg.Retry.BaseDelay)),
		WithMaxTokens(cfg.LLM.MaxTokens),
	), nil
}

func resolveModels(provider string, cfg *config.LLMConfig) Models {
	m := defaultModels[provider]
	if cfg.ModelFast != "" {
		m.Fast = cfg.ModelFast
	}
	if cfg.ModelDeep != "" {
		m.Deep = cfg.ModelDeep
	}
	// 只配置了一个模型时两档共用
	if m.Fast == "" {
		m.Fast = m.Deep
	}
	if m.Deep == "" {
		m.Deep = m.Fast
	}
	return m
}
