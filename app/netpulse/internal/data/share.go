package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/iWorld-y/netpulse/app/netpulse/internal/repo"
)

const redisKeyPrefix = "share:"

type sqlShareRepo struct {
	data *Data
	now  func() time.Time
	log  *log.Helper
}

type redisShareRepo struct {
	data *Data
	log  *log.Helper
}

// NewShareRepo 按驱动返回分享存储实现，未配置存储时返回 nil
func NewShareRepo(data *Data, logger log.Logger) repo.ShareRepo {
	if !data.Enabled() {
		return nil
	}
	if data.rdb != nil {
		return &redisShareRepo{data: data, log: log.NewHelper(logger)}
	}
	return &sqlShareRepo{data: data, now: time.Now, log: log.NewHelper(logger)}
}

func (r *sqlShareRepo) Save(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	now := r.now()

	// 顺带清理过期记录
	if res, err := r.data.db.ExecContext(ctx, r.data.rebind(`DELETE FROM shares WHERE expires_at <= ?`), now.UnixMilli()); err != nil {
		r.log.Warnf("purge expired shares: %v", err)
	} else if n, _ := res.RowsAffected(); n > 0 {
		r.log.Debugf("purged %d expired shares", n)
	}

	_, err := r.data.db.ExecContext(ctx,
		r.data.rebind(`INSERT INTO shares (id, payload, created_at, expires_at) VALUES (?, ?, ?, ?)`),
		id, string(payload), now.UnixMilli(), now.Add(ttl).UnixMilli(),
	)
	return err
}

func (r *sqlShareRepo) Get(ctx context.Context, id string) ([]byte, error) {
	var payload string
	err := r.data.db.QueryRowContext(ctx,
		r.data.rebind(`SELECT payload FROM shares WHERE id = ? AND expires_at > ?`),
		id, r.now().UnixMilli(),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrShareNotFound
		}
		return nil, err
	}
	return []byte(payload), nil
}

func (r *redisShareRepo) Save(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	ok, err := r.data.rdb.SetNX(ctx, redisKeyPrefix+id, payload, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("share id already exists")
	}
	return nil
}

func (r *redisShareRepo) Get(ctx context.Context, id string) ([]byte, error) {
	b, err := r.data.rdb.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repo.ErrShareNotFound
		}
		return nil, err
	}
	return b, nil
}
