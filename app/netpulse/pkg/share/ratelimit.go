package share

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/logger"
)

// RateLimitKey 速率限制日志在本地存储中的键
const RateLimitKey = "netpulse_share_rate_limit"

const (
	DefaultRateLimitMax    = 10
	DefaultRateLimitWindow = 60 * time.Second
)

// Store 本地持久化键值存储，键不存在时返回 nil, nil
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// MemoryStore 内存实现
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get implements Store
func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Put implements Store
func (m *MemoryStore) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// RateLimiter 基于滚动时间窗的分享生成限流，日志以毫秒时间戳 JSON 数组保存
type RateLimiter struct {
	store  Store
	max    int
	window time.Duration
	now    func() time.Time
	mu     sync.Mutex
}

// RateLimitOption 限流器选项
type RateLimitOption func(*RateLimiter)

// WithLimit 设置窗口内的最大次数与窗口长度
func WithLimit(n int, window time.Duration) RateLimitOption {
	return func(l *RateLimiter) {
		if n > 0 {
			l.max = n
		}
		if window > 0 {
			l.window = window
		}
	}
}

// WithNow 注入时钟
func WithNow(now func() time.Time) RateLimitOption {
	return func(l *RateLimiter) { l.now = now }
}

// NewRateLimiter 创建限流器，store 为 nil 时所有请求都放行
func NewRateLimiter(store Store, opts ...RateLimitOption) *RateLimiter {
	l := &RateLimiter{
		store:  store,
		max:    DefaultRateLimitMax,
		window: DefaultRateLimitWindow,
		now:    time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Allow 记录一次生成尝试并返回是否放行。存储不可用时放行。
func (l *RateLimiter) Allow() bool {
	if l == nil || l.store == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UnixMilli()

	raw, err := l.store.Get(RateLimitKey)
	if err != nil {
		logger.L().Warnf("读取分享限流记录失败，放行: %v", err)
		return true
	}
	var history []int64
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &history); err != nil {
			logger.L().Warnf("分享限流记录损坏，放行: %v", err)
			return true
		}
	}

	kept := history[:0]
	for _, t := range history {
		if now-t < l.window.Milliseconds() {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		return false
	}

	kept = append(kept, now)
	b, err := json.Marshal(kept)
	if err != nil {
		return true
	}
	if err := l.store.Put(RateLimitKey, b); err != nil {
		logger.L().Warnf("写入分享限流记录失败: %v", err)
	}
	return true
}
