package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/syndtr/goleveldb/leveldb"
)

// Storage 本地持久化键值存储，供分享限流日志等客户端状态使用
type Storage struct {
	db *leveldb.DB
}

// New 打开 (或创建) 指定目录下的 leveldb
func New(path string) (*Storage, error) {
	const op = "storage.leveldb.New"

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{db: db}, nil
}

// Close 关闭数据库
func (s *Storage) Close() error {
	return s.db.Close()
}

// Get 读取键值，键不存在时返回 nil, nil
func (s *Storage) Get(key string) ([]byte, error) {
	const op = "storage.leveldb.Get"

	v, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// Put 写入键值
func (s *Storage) Put(key string, value []byte) error {
	const op = "storage.leveldb.Put"

	if err := s.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
