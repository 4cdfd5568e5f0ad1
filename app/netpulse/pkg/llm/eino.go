package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/retry"
)

// EinoCompleter 基于 eino ChatModel 的 OpenAI 兼容实现
type EinoCompleter struct {
	name      string
	chatModel model.BaseChatModel
}

var _ Completer = (*EinoCompleter)(nil)

// NewEinoCompleter 包装已有的 ChatModel
func NewEinoCompleter(name string, cm model.BaseChatModel) *EinoCompleter {
	return &EinoCompleter{name: name, chatModel: cm}
}

// NewOpenAICompleter 创建 OpenAI 兼容的 ChatModel
func NewOpenAICompleter(ctx context.Context, name, baseURL, apiKey, defaultModel string) (*EinoCompleter, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   defaultModel,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return NewEinoCompleter(name, cm), nil
}

// Name implements Completer
func (c *EinoCompleter) Name() string {
	return c.name
}

// Complete implements Completer
func (c *EinoCompleter) Complete(ctx context.Context, req Request) (string, error) {
	var messages []*schema.Message
	if req.System != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: req.System})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: req.Prompt})

	var opts []model.Option
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	resp, err := c.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "too many requests") {
			return "", &retry.StatusError{Service: c.name, Code: http.StatusTooManyRequests, Body: msg}
		}
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Content, nil
}
