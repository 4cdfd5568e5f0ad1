package data

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverNone     = "none"
)

// Data 分享存储的底层连接，driver 为 none 时两者皆为空
type Data struct {
	driver string
	db     *sql.DB
	rdb    *redis.Client
}

// Enabled 是否配置了分享存储
func (d *Data) Enabled() bool {
	return d != nil && (d.db != nil || d.rdb != nil)
}

func NewData(c *config.Config, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	sc := c.Share.Store
	driver := strings.ToLower(strings.TrimSpace(sc.Driver))

	switch driver {
	case "", DriverNone:
		helper.Info("share store disabled")
		return &Data{driver: DriverNone}, func() {}, nil

	case DriverPostgres, DriverSQLite:
		db, err := sql.Open(driver, sc.Source)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		if _, err := db.Exec(`
			CREATE TABLE IF NOT EXISTS shares (
				id TEXT PRIMARY KEY,
				payload TEXT NOT NULL,
				created_at BIGINT NOT NULL,
				expires_at BIGINT NOT NULL
			)
		`); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to init shares table: %w", err)
		}
		cleanup := func() {
			helper.Info("closing the data resources")
			db.Close()
		}
		return &Data{driver: driver, db: db}, cleanup, nil

	case DriverRedis:
		opt, err := redis.ParseURL(sc.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			rdb.Close()
			return nil, nil, err
		}
		cleanup := func() {
			helper.Info("closing the data resources")
			rdb.Close()
		}
		return &Data{driver: driver, rdb: rdb}, cleanup, nil
	}
	return nil, nil, fmt.Errorf("unsupported share store driver: %s", sc.Driver)
}

// rebind 把 ? 占位符换成 postgres 的 $n 形式
func (d *Data) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
