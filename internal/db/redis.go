package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisKeyPrefix namespaces collection keys in a shared redis database.
const redisKeyPrefix = "pridelek:"

// OpenRedis connects to a redis server holding the ledger store.
func OpenRedis(ctx context.Context, addr, password string, index int) (*DB, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       index,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return New(&redisBackend{rdb: rdb}), nil
}

type redisBackend struct {
	rdb *redis.Client
}

func (b *redisBackend) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := b.rdb.Get(ctx, redisKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", name, err)
	}
	return data, nil
}

// SetAll writes inside MULTI/EXEC so readers never see half of a commit.
func (b *redisBackend) SetAll(ctx context.Context, writes map[string][]byte) error {
	_, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for name, data := range writes {
			pipe.Set(ctx, redisKeyPrefix+name, data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing collections: %w", err)
	}
	return nil
}

func (b *redisBackend) Close() error {
	return b.rdb.Close()
}
