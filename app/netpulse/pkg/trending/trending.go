package trending

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/logger"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/model"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/prompt"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/search"
)

const (
	// DefaultTTL 缓存有效期
	DefaultTTL = time.Hour
	// DefaultQuery 刷新时使用的固定搜索词
	DefaultQuery = "important tech news today"
	// MaxTopics 最多返回的话题数
	MaxTopics = 4
	// searchResults 刷新时搜索的条数
	searchResults = 5
)

var defaultTopics = map[model.Lang][]string{
	model.LangZH: {"最新科技趋势", "AI模型更新", "网络安全", "全球互联网"},
	model.LangEN: {"Latest Tech Trends", "AI Model Updates", "Cybersecurity", "Global Internet"},
}

// DefaultTopics 返回默认话题的副本
func DefaultTopics(lang model.Lang) []string {
	topics, ok := defaultTopics[lang]
	if !ok {
		topics = defaultTopics[model.LangZH]
	}
	out := make([]string, len(topics))
	copy(out, topics)
	return out
}

// Completer 补全客户端
type Completer interface {
	Complete(ctx context.Context, mode model.Mode, prompt string) (string, error)
}

// Entry 单个语言的缓存条目
type Entry struct {
	Topics    []string
	Timestamp int64 // 毫秒
	Lang      model.Lang
}

// Option 服务选项
type Option func(*Service)

// WithClock 注入时钟 (测试用)
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTTL 设置缓存有效期
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithQuery 设置刷新搜索词
func WithQuery(q string) Option {
	return func(s *Service) {
		if q != "" {
			s.query = q
		}
	}
}

// Service 热门话题缓存，每种语言一个条目
type Service struct {
	searcher search.Searcher
	llm      Completer
	ttl      time.Duration
	query    string
	now      func() time.Time

	mu      sync.RWMutex
	entries map[model.Lang]*Entry
	group   singleflight.Group
}

// NewService 创建热门话题服务，searcher 或 llm 为空时始终返回默认话题
func NewService(searcher search.Searcher, llm Completer, opts ...Option) *Service {
	s := &Service{
		searcher: searcher,
		llm:      llm,
		ttl:      DefaultTTL,
		query:    DefaultQuery,
		now:      time.Now,
		entries:  make(map[model.Lang]*Entry),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Topics 返回指定语言的热门话题，永远不会返回错误
func (s *Service) Topics(ctx context.Context, lang model.Lang) []string {
	if topics, ok := s.cached(lang); ok {
		return topics
	}

	v, _, _ := s.group.Do(string(lang), func() (any, error) {
		// 等待期间其他调用可能已完成刷新
		if topics, ok := s.cached(lang); ok {
			return topics, nil
		}
		topics, err := s.refresh(ctx, lang)
		if err != nil {
			logger.L().Warnf("刷新热门话题失败 [%s]，使用默认话题: %v", lang, err)
			return DefaultTopics(lang), nil
		}
		return topics, nil
	})

	topics := v.([]string)
	out := make([]string, len(topics))
	copy(out, topics)
	return out
}

// Entry 返回当前缓存条目 (可能已过期)
func (s *Service) Entry(lang model.Lang) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[lang]
	if !ok {
		return Entry{}, false
	}
	out := *e
	out.Topics = append([]string(nil), e.Topics...)
	return out, true
}

func (s *Service) cached(lang model.Lang) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[lang]
	if !ok || s.now().UnixMilli()-e.Timestamp >= s.ttl.Milliseconds() {
		return nil, false
	}
	out := make([]string, len(e.Topics))
	copy(out, e.Topics)
	return out, true
}

type refreshError string

func (e refreshError) Error() string { return string(e) }

// refresh 搜索 -> 提取话题 -> 写入缓存，失败时不修改缓存
func (s *Service) refresh(ctx context.Context, lang model.Lang) ([]string, error) {
	if s.searcher == nil || s.llm == nil {
		return nil, refreshError("trending pipeline not configured")
	}

	now := s.now()
	resp, err := s.searcher.Search(ctx, &search.Request{
		Query:      s.query,
		Topic:      "news",
		MaxResults: searchResults,
		StartDate:  now.AddDate(0, 0, -1).Format(time.DateOnly),
	})
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		titles = append(titles, r.Title)
	}
	if len(titles) == 0 {
		return nil, refreshError("no news results")
	}

	text, err := s.llm.Complete(ctx, model.ModeFast, prompt.BuildTrending(titles, lang))
	if err != nil {
		return nil, err
	}

	topics := SplitTopics(text)
	if len(topics) == 0 {
		return nil, refreshError("no usable topics in completion")
	}

	// 先构建完整条目再一次性发布
	entry := &Entry{Topics: topics, Timestamp: now.UnixMilli(), Lang: lang}
	s.mu.Lock()
	s.entries[lang] = entry
	s.mu.Unlock()

	logger.L().Infof("热门话题已刷新 [%s]: %v", lang, topics)
	return topics, nil
}

// SplitTopics 按行拆分补全结果，去掉空行并截断到 MaxTopics
func SplitTopics(text string) []string {
	var topics []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		topics = append(topics, line)
		if len(topics) == MaxTopics {
			break
		}
	}
	return topics
}
