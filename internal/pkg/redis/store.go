package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Store 对 Redis 字符串读写的封装
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// SetValue 设置键值对，不过期
func (s *Store) SetValue(ctx context.Context, key string, value interface{}) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

// GetValue 获取字符串类型的值，键不存在时返回空串
func (s *Store) GetValue(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

