package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps the document as a single string value. SET replaces the
// value atomically.
type RedisBackend struct {
	Client redis.Cmdable
	Key    string
}

func (r *RedisBackend) key() string {
	return fmt.Sprintf(redisx.KeyDocument, r.Key)
}

func (r *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	b, err := r.Client.Get(ctx, r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.key(), err)
	}
	return b, nil
}

func (r *RedisBackend) Write(ctx context.Context, body []byte) error {
	if err := r.Client.Set(ctx, r.key(), body, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.key(), err)
	}
	return nil
}

func (r *RedisBackend) Preserve(ctx context.Context, body []byte) (string, error) {
	target := fmt.Sprintf(redisx.KeyCorruptDocument, r.Key, time.Now().Format("20060102T150405.000"))
	if err := r.Client.Set(ctx, target, body, 0).Err(); err != nil {
		return "", fmt.Errorf("set %s: %w", target, err)
	}
	return target, nil
}
