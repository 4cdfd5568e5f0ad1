package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/logger"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/retry"
)

// Request 单次补全请求
type Request struct {
	System    string
	Prompt    string
	Model     string
	MaxTokens int
}

// Completer 具体 provider 的补全实现
type Completer interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Models 按分析模式区分的模型
type Models struct {
	Fast string
	Deep string
}

// Client 带模型分级、限流与重试的补全客户端
type Client struct {
	completer Completer
	models    Models
	maxTokens int
	limiter   *rate.Limiter
	policy    retry.Policy
}

// ClientOption 客户端选项
type ClientOption func(*Client)

// WithLimiter 设置请求限流器
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) { c.limiter = l }
}

// WithRetry 设置重试策略
func WithRetry(p retry.Policy) ClientOption {
	return func(c *Client) { c.policy = p }
}

// WithMaxTokens 设置最大输出 token
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// NewClient 创建补全客户端
func NewClient(completer Completer, models Models, opts ...ClientOption) *Client {
	c := &Client{
		completer: completer,
		models:    models,
		policy:    retry.DefaultPolicy,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewLimiter 按 RPM/QPS 创建限流器，未配置时返回 nil (不限流)
func NewLimiter(rpm, qps int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	burst := qps
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// Provider 返回 provider 名称
func (c *Client) Provider() string {
	return c.completer.Name()
}

// Model 返回模式对应的模型
func (c *Client) Model(mode model.Mode) string {
	if mode == model.ModeFast {
		return c.models.Fast
	}
	return c.models.Deep
}

// Complete 使用模式对应的模型执行补全
func (c *Client) Complete(ctx context.Context, mode model.Mode, prompt string) (string, error) {
	req := Request{
		Prompt:    prompt,
		Model:     c.Model(mode),
		MaxTokens: c.maxTokens,
	}

	var text string
	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Permanent(err)
			}
		}
		out, err := c.completer.Complete(ctx, req)
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s completion failed (%s): %w", c.completer.Name(), req.Model, err)
	}

	logger.L().Debugf("[%s] %s 补全完成，长度 %d", c.completer.Name(), req.Model, len(text))
	return text, nil
}
