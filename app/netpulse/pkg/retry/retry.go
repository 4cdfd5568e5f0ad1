package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/logger"
)

// Policy 重试策略：最多 Attempts 次，第 i 次失败后等待 BaseDelay * 2^i
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultPolicy 默认策略: 3 次，500ms / 1s
var DefaultPolicy = Policy{Attempts: 3, BaseDelay: 500 * time.Millisecond}

// NewPolicy 创建策略，非正值使用默认值
func NewPolicy(attempts int, baseDelay time.Duration) Policy {
	p := DefaultPolicy
	if attempts > 0 {
		p.Attempts = attempts
	}
	if baseDelay > 0 {
		p.BaseDelay = baseDelay
	}
	return p
}

// StatusError 外部服务返回了非成功状态码
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Service, e.Code, e.Body)
}

// Retryable 429 与 5xx 可重试
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent 标记错误不可重试
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsRetryable 判断错误是否值得重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var p *permanentError
	if errors.As(err, &p) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	// 传输层错误
	return true
}

// Do 按策略执行 fn，直到成功、遇到不可重试错误或次数用尽
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) || i == attempts-1 {
			break
		}

		delay := p.BaseDelay * time.Duration(1<<i)
		logger.L().Warnf("第 %d/%d 次调用失败，%v 后重试: %v", i+1, attempts, delay, lastErr)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	var perm *permanentError
	if errors.As(lastErr, &perm) {
		return perm.err
	}
	return lastErr
}
