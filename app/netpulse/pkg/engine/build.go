package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/llm"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/search"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/search/enrich"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/search/factory"
)

// Components 由配置构建出的外部依赖
type Components struct {
	Searcher search.Searcher
	LLM      *llm.Client
	Missing  []string
}

// BuildComponents 根据配置创建搜索与 LLM 客户端。
// 缺少凭据不会报错，而是记录在 Missing 中，由请求时返回 ConfigurationError。
func BuildComponents(ctx context.Context, cfg *config.Config) (*Components, error) {
	c := &Components{}
	var mk *config.MissingKeyError

	searcher, err := factory.NewSearcher(cfg)
	switch {
	case err == nil:
		c.Searcher = searcher
	case errors.As(err, &mk):
		c.Missing = append(c.Missing, mk.Key)
	default:
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	client, err := llm.New(ctx, cfg)
	switch {
	case err == nil:
		c.LLM = client
	case errors.As(err, &mk):
		c.Missing = append(c.Missing, mk.Key)
	default:
		return nil, fmt.Errorf("LLM 客户端初始化失败: %w", err)
	}

	return c, nil
}

// Build 根据配置创建引擎
func Build(ctx context.Context, cfg *config.Config) (*Engine, *Components, error) {
	c, err := BuildComponents(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return FromComponents(cfg, c), c, nil
}

// FromComponents 用已构建的组件创建引擎
func FromComponents(cfg *config.Config, c *Components) *Engine {
	opts := Options{
		MaxResultsFast:  cfg.Search.MaxResultsFast,
		MaxResultsDeep:  cfg.Search.MaxResultsDeep,
		OnSearchFailure: ParsePolicy(cfg.Search.OnFailure),
		SearchProvider:  cfg.Search.Provider,
		Missing:         c.Missing,
	}
	if cfg.Search.Enrich {
		opts.Enricher = enrich.New(nil)
	}
	return NewEngine(c.Searcher, c.Completer(), opts)
}

// Completer 返回 LLM 客户端，未配置时返回 nil 接口 (避免 typed nil 落入接口)
func (c *Components) Completer() Completer {
	if c.LLM == nil {
		return nil
	}
	return c.LLM
}
