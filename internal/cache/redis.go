package cache

import (
	"context"
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"
)

// RedisStore keeps entries in Redis with millisecond expiry.
type RedisStore struct {
	pool   *redis.Pool
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix namespaces every key written by the store.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a store backed by a connection pool to addr.
func NewRedisStore(addr string, opts ...RedisOption) *RedisStore {
	pool := &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr,
				redis.DialConnectTimeout(time.Second),
				redis.DialReadTimeout(time.Second),
				redis.DialWriteTimeout(time.Second),
			)
		},
	}
	return NewRedisStoreFromPool(pool, opts...)
}

// NewRedisStoreFromPool wraps an existing pool.
func NewRedisStoreFromPool(pool *redis.Pool, opts ...RedisOption) *RedisStore {
	s := &RedisStore{pool: pool, prefix: "cache:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, false, err
	}
	defer conn.Close()

	value, err := redis.Bytes(redis.DoContext(conn, ctx, "GET", s.prefix+key))
	if errors.Is(err, redis.ErrNil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = redis.DoContext(conn, ctx, "SET", s.prefix+key, value, "PX", ttl.Milliseconds())
	return err
}

// Close releases the pool's connections.
func (s *RedisStore) Close() error {
	return s.pool.Close()
}
