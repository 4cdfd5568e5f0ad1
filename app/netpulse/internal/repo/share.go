package repo

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
)

// ErrShareNotFound 分享不存在或已过期
var ErrShareNotFound = errors.NotFound("SHARE_NOT_FOUND", "Share not found or expired")

// ShareRepo 服务端分享存储接口
type ShareRepo interface {
	// Save 保存分享记录，ttl 到期后不可再读取
	Save(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	// Get 读取分享记录，不存在或过期时返回 ErrShareNotFound
	Get(ctx context.Context, id string) ([]byte, error)
}
