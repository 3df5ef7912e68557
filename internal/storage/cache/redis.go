package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"envanter/internal/config"
)

// NewRedis подключается к Redis по URL из конфига. Пустой URL — кэш
// выключен, возвращается nil без ошибки.
func NewRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	const op = "storage.cache.NewRedis"

	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", op, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return client, nil
}
