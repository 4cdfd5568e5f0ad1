package engine

import (
	"context"
	"strings"
	"time"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/logger"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/parser"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/prompt"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/search"
)

// Completer 按模式选择模型的补全客户端
type Completer interface {
	Provider() string
	Complete(ctx context.Context, mode model.Mode, prompt string) (string, error)
}

// Enricher 补全搜索摘要正文
type Enricher interface {
	Enrich(ctx context.Context, snippets []model.SearchSnippet) []model.SearchSnippet
}

// SearchFailurePolicy 搜索失败时的处理策略
type SearchFailurePolicy string

const (
	// SearchDegrade 以空参考资料继续分析
	SearchDegrade SearchFailurePolicy = "degrade"
	// SearchFail 直接返回 ServiceUnavailable
	SearchFail SearchFailurePolicy = "fail"
)

// ParsePolicy 解析策略，未知值使用 degrade
func ParsePolicy(s string) SearchFailurePolicy {
	if strings.EqualFold(s, string(SearchFail)) {
		return SearchFail
	}
	return SearchDegrade
}

// Options 引擎参数
type Options struct {
	MaxResultsFast  int
	MaxResultsDeep  int
	OnSearchFailure SearchFailurePolicy
	SearchProvider  string

	// Enricher 仅在 deep 模式下使用，可为空
	Enricher Enricher

	// Missing 缺失的凭据名，非空时所有分析请求返回 ConfigurationError
	Missing []string
}

// Engine 分析编排：搜索 -> 构建提示词 -> 补全 -> 解析
type Engine struct {
	searcher search.Searcher
	llm      Completer
	opts     Options
}

// NewEngine 创建引擎实例
func NewEngine(searcher search.Searcher, llm Completer, opts Options) *Engine {
	if opts.MaxResultsFast <= 0 {
		opts.MaxResultsFast = 4
	}
	if opts.MaxResultsDeep <= 0 {
		opts.MaxResultsDeep = 6
	}
	if opts.OnSearchFailure == "" {
		opts.OnSearchFailure = SearchDegrade
	}
	return &Engine{searcher: searcher, llm: llm, opts: opts}
}

// Missing 返回缺失的凭据
func (e *Engine) Missing() []string {
	return e.opts.Missing
}

// Analyze 执行一次完整的分析
func (e *Engine) Analyze(ctx context.Context, query string, mode model.Mode, lang model.Lang) (*model.AnalysisResult, error) {
	if len(e.opts.Missing) > 0 || e.searcher == nil || e.llm == nil {
		missing := e.opts.Missing
		if len(missing) == 0 {
			missing = []string{"unknown"}
		}
		return nil, ConfigurationError(missing)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ValidationError("Missing query parameter")
	}

	start := time.Now()
	logger.L().Infof("开始分析 [%s] mode=%s lang=%s", query, mode, lang)

	// 1. 搜索
	snippets, err := e.search(ctx, query, mode)
	if err != nil {
		return nil, err
	}

	// 2. 构建提示词
	p := prompt.Build(query, snippets, lang)

	// 3. 补全
	text, err := e.llm.Complete(ctx, mode, p)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.L().Errorf("[%s] 补全失败: %v", e.llm.Provider(), err)
		return nil, ServiceUnavailable(e.llm.Provider(), msgAnalysisUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		text = prompt.NoResult(lang)
	}

	// 4. 解析
	parsed := parser.Parse(text)
	if parsed.IsEmpty() {
		logger.L().Warnf("补全结果中没有识别到任何段落标签 [%s]", query)
	}

	logger.L().Infof("分析完成 [%s]，来源 %d 条，耗时 %v", query, len(snippets), time.Since(start))
	return &model.AnalysisResult{
		RawText: text,
		Parsed:  parsed,
		Sources: model.SourcesFrom(snippets),
	}, nil
}

func (e *Engine) search(ctx context.Context, query string, mode model.Mode) ([]model.SearchSnippet, error) {
	maxResults := e.opts.MaxResultsDeep
	if mode == model.ModeFast {
		maxResults = e.opts.MaxResultsFast
	}

	resp, err := e.searcher.Search(ctx, &search.Request{
		Query:      query,
		MaxResults: maxResults,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if e.opts.OnSearchFailure == SearchFail {
			logger.L().Errorf("[%s] 搜索失败: %v", e.opts.SearchProvider, err)
			return nil, ServiceUnavailable(e.opts.SearchProvider, msgSearchUnavailable, err)
		}
		logger.L().Warnf("[%s] 搜索失败，降级为无参考资料: %v", e.opts.SearchProvider, err)
		return []model.SearchSnippet{}, nil
	}

	snippets := resp.Snippets()
	if len(snippets) > maxResults {
		snippets = snippets[:maxResults]
	}
	if mode == model.ModeDeep && e.opts.Enricher != nil {
		snippets = e.opts.Enricher.Enrich(ctx, snippets)
	}
	return snippets, nil
}
