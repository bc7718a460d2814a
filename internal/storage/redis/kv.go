// Package redis реализует долговечное key-value хранилище под
// локальным кэш-документом поверх Redis.
//
// Никакой логики истечения здесь нет намеренно: сроки жизни записей
// лежат внутри самого документа и проверяются при чтении (ленивое
// истечение), а Redis хранит документ как непрозрачное значение.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/avikulina/kinolenta/internal/storage"
)

type kvStore struct {
	rdb *redis.Client
}

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
func New(ctx context.Context, redisURL string) (storage.KV, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &kvStore{rdb: rdb}, nil
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("redis: get %q: %w", key, err)
	}

	return raw, true, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	// Без TTL на уровне Redis: документ живёт, пока его не перепишут
	// или не сотрут через ClearAll.
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %q: %w", key, err)
	}

	return nil
}

func (s *kvStore) Del(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: del %q: %w", key, err)
	}

	return nil
}

func (s *kvStore) Close() error {
	return s.rdb.Close()
}
