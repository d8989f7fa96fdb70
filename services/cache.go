package services

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheBatch collects key commands that must apply as one indivisible unit.
type CacheBatch interface {
	Set(key string, value []byte, ttl time.Duration)
	Expire(key string, ttl time.Duration)
	Del(keys ...string)
}

// Cache is the TTL key/value collaborator behind the session store.
// Get returns nil with no error on a miss. Atomic runs the batched commands
// as one unit; a concurrent reader never observes partial application.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Atomic(ctx context.Context, fn func(batch CacheBatch)) error
}

// InitializeRedisClient initializes the Redis client from the environment
func InitializeRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", addr, err)
	}
	return client
}

// RedisCache implements Cache on go-redis. Atomic batches run as a
// MULTI/EXEC transaction via TxPipelined.
type RedisCache struct {
	Client *redis.Client
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *RedisCache) Atomic(ctx context.Context, fn func(batch CacheBatch)) error {
	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fn(&redisBatch{ctx: ctx, pipe: pipe})
		return nil
	})
	return err
}

type redisBatch struct {
	ctx  context.Context
	pipe redis.Pipeliner
}

func (b *redisBatch) Set(key string, value []byte, ttl time.Duration) {
	b.pipe.Set(b.ctx, key, value, ttl)
}

func (b *redisBatch) Expire(key string, ttl time.Duration) {
	b.pipe.Expire(b.ctx, key, ttl)
}

func (b *redisBatch) Del(keys ...string) {
	b.pipe.Del(b.ctx, keys...)
}
