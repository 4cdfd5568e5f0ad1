package factory

import (
	"fmt"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/exa"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/retry"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/search"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/searxng"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/tavily"
)

// Provider names
const (
	ProviderTavily  = "tavily"
	ProviderExa     = "exa"
	ProviderSearXNG = "searxng"
)

// NewSearcher 根据配置创建搜索实例。
// 缺少凭据时返回 *config.MissingKeyError。
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	policy := retry.NewPolicy(cfg.Retry.Attempts, cfg.Retry.BaseDelay)

	provider := cfg.Search.Provider
	if provider == "" {
		provider = ProviderTavily
	}

	switch provider {
	case ProviderTavily:
		if cfg.Search.Tavily.APIKey == "" {
			return nil, &config.MissingKeyError{Key: "TAVILY_API_KEY"}
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey, tavily.WithRetry(policy)), nil

	case ProviderExa:
		if cfg.Search.Exa.APIKey == "" {
			return nil, &config.MissingKeyError{Key: "EXA_API_KEY"}
		}
		return exa.NewClient(cfg.Search.Exa.APIKey, exa.WithRetry(policy)), nil

	case ProviderSearXNG:
		if cfg.Search.SearXNG.BaseURL == "" {
			return nil, &config.MissingKeyError{Key: "SEARXNG_BASE_URL"}
		}
		return searxng.NewClient(cfg.Search.SearXNG.BaseURL, cfg.Search.SearXNG.Timeout, policy), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}

