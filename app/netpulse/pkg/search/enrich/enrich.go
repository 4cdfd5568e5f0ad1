package enrich

import (
	"context"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/logger"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
)

const (
	// MinContentLen 摘要短于该长度时尝试抓取正文
	MinContentLen = 500
	// MaxContentLen 正文截断长度 (字符)
	MaxContentLen = 5000
)

// FetchFunc 抓取网页正文
type FetchFunc func(url string, timeout time.Duration) (string, error)

// Enricher 用网页正文补全过短的搜索摘要
type Enricher struct {
	fetch   FetchFunc
	timeout time.Duration
}

// New 创建 Enricher，fetch 为 nil 时使用 go-readability
func New(fetch FetchFunc) *Enricher {
	if fetch == nil {
		fetch = fetchAndCleanContent
	}
	return &Enricher{fetch: fetch, timeout: 30 * time.Second}
}

// Enrich 逐条补全摘要内容，不改变条数和顺序
func (e *Enricher) Enrich(ctx context.Context, snippets []model.SearchSnippet) []model.SearchSnippet {
	out := make([]model.SearchSnippet, len(snippets))
	copy(out, snippets)

	for i, s := range out {
		if ctx.Err() != nil {
			break
		}
		content := s.Content
		if len([]rune(content)) < MinContentLen && s.URL != "" {
			fetched, err := e.fetch(s.URL, e.timeout)
			if err != nil {
				logger.L().Debugf("抓取正文失败 [%s]: %v", s.URL, err)
			} else if len([]rune(fetched)) > len([]rune(content)) {
				content = fetched
			}
		}
		out[i].Content = truncate(content, MaxContentLen)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func fetchAndCleanContent(url string, timeout time.Duration) (string, error) {
	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
