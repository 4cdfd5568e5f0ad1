package usecase

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/netpulse/app/netpulse/internal/repo"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/share"
)

const (
	shareIDLength   = 8
	shareIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

	DefaultShareTTL = 30 * 24 * time.Hour
)

var shareIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{8}$`)

var (
	ErrShareNotConfigured = errors.InternalServer("SHARE_NOT_CONFIGURED", "Share service not configured")
	ErrInvalidShareData   = errors.BadRequest("INVALID_SHARE_DATA", "Invalid share data")
	ErrInvalidShareID     = errors.BadRequest("INVALID_SHARE_ID", "Invalid share ID")
	ErrShareCreateFailed  = errors.InternalServer("SHARE_CREATE_FAILED", "Failed to create share link")
	ErrShareGetFailed     = errors.InternalServer("SHARE_GET_FAILED", "Failed to retrieve share data")
)

// SharedRecord 服务端保存的分享记录
type SharedRecord struct {
	*share.Data
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
}

// CreateShareReply 创建分享的返回
type CreateShareReply struct {
	ID        string `json:"id"`
	ExpiresIn string `json:"expiresIn"`
}

// ShareUseCase 服务端分享业务逻辑
type ShareUseCase struct {
	repo  repo.ShareRepo
	ttl   time.Duration
	now   func() time.Time
	newID func() (string, error)
	log   *log.Helper
}

// NewShareUseCase 创建分享业务逻辑实例，repo 为空表示未配置存储
func NewShareUseCase(r repo.ShareRepo, c *config.Config, logger log.Logger) *ShareUseCase {
	ttl := c.Share.Store.TTL
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	return &ShareUseCase{
		repo:  r,
		ttl:   ttl,
		now:   time.Now,
		newID: generateShortID,
		log:   log.NewHelper(logger),
	}
}

// Create 校验并保存分享数据，返回短 ID
func (uc *ShareUseCase) Create(ctx context.Context, body []byte) (*CreateShareReply, error) {
	if uc.repo == nil {
		return nil, ErrShareNotConfigured
	}
	d, ok := share.Validate(body)
	if !ok {
		return nil, ErrInvalidShareData
	}

	id, err := uc.newID()
	if err != nil {
		uc.log.Errorf("generate share id: %v", err)
		return nil, ErrShareCreateFailed
	}
	payload, err := json.Marshal(&SharedRecord{Data: d, ID: id, CreatedAt: uc.now().UnixMilli()})
	if err != nil {
		uc.log.Errorf("marshal share record: %v", err)
		return nil, ErrShareCreateFailed
	}
	if err := uc.repo.Save(ctx, id, payload, uc.ttl); err != nil {
		uc.log.Errorf("save share %s: %v", id, err)
		return nil, ErrShareCreateFailed
	}

	uc.log.Infof("share created: %s", id)
	return &CreateShareReply{ID: id, ExpiresIn: humanizeTTL(uc.ttl)}, nil
}

// Get 读取分享记录，内容经过校验与清洗
func (uc *ShareUseCase) Get(ctx context.Context, id string) (*SharedRecord, error) {
	if uc.repo == nil {
		return nil, ErrShareNotConfigured
	}
	if !shareIDPattern.MatchString(id) {
		return nil, ErrInvalidShareID
	}

	payload, err := uc.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrShareNotFound) {
			return nil, repo.ErrShareNotFound
		}
		uc.log.Errorf("get share %s: %v", id, err)
		return nil, ErrShareGetFailed
	}

	d := share.DecodeJSON(payload)
	if d == nil {
		uc.log.Errorf("stored share %s failed validation", id)
		return nil, ErrShareGetFailed
	}
	var meta struct {
		CreatedAt int64 `json:"createdAt"`
	}
	_ = json.Unmarshal(payload, &meta)

	return &SharedRecord{Data: d, ID: id, CreatedAt: meta.CreatedAt}, nil
}

// generateShortID 8 位短 ID，去掉了易混淆的 I l O 0 1
func generateShortID() (string, error) {
	b := make([]byte, shareIDLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = shareIDAlphabet[int(b[i])%len(shareIDAlphabet)]
	}
	return string(b), nil
}

func humanizeTTL(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	switch {
	case days > 1:
		return fmt.Sprintf("%d days", days)
	case days == 1:
		return "1 day"
	}
	return d.String()
}
