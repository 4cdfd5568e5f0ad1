package server

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/engine"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/trending"
)

// NewComponents 创建搜索与 LLM 客户端，缺少凭据时只记录日志，请求时再返回配置错误
func NewComponents(c *config.Config, logger log.Logger) (*engine.Components, error) {
	comps, err := engine.BuildComponents(context.Background(), c)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init netpulse components: %v", err)
		return nil, err
	}
	if len(comps.Missing) > 0 {
		log.NewHelper(logger).Warnf("missing keys: %s, /api/analyze will return a configuration error", strings.Join(comps.Missing, ", "))
	}
	return comps, nil
}

// NewEngine 初始化分析引擎
func NewEngine(c *config.Config, comps *engine.Components) *engine.Engine {
	return engine.FromComponents(c, comps)
}

// NewTrending 初始化热门话题缓存
func NewTrending(c *config.Config, comps *engine.Components) *trending.Service {
	return trending.NewService(comps.Searcher, comps.Completer(),
		trending.WithTTL(c.Trending.TTL),
		trending.WithQuery(c.Trending.Query),
	)
}
