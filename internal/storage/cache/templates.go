package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"envanter/internal/storage"
)

const (
	categoryKeyPrefix  = "category:"
	templatesKeyPrefix = "field_templates:"
)

// TemplateSource — первичное хранилище категорий и шаблонов полей.
type TemplateSource interface {
	GetCategory(ctx context.Context, id string) (*storage.Category, error)
	GetFieldTemplates(ctx context.Context, categoryID string) ([]storage.FieldTemplate, error)
}

type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Templates кэширует категории и шаблоны в Redis. Недоступность Redis не
// ломает импорт: ошибка логируется и запрос уходит в первичное хранилище.
type Templates struct {
	log    *slog.Logger
	source TemplateSource
	kv     kv
	ttl    time.Duration
}

func NewTemplates(log *slog.Logger, source TemplateSource, client kv, ttl time.Duration) *Templates {
	return &Templates{log: log, source: source, kv: client, ttl: ttl}
}

func (c *Templates) GetCategory(ctx context.Context, id string) (*storage.Category, error) {
	const op = "storage.cache.GetCategory"

	key := categoryKeyPrefix + id

	var category storage.Category
	if c.load(ctx, op, key, &category) {
		return &category, nil
	}

	loaded, err := c.source.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, op, key, loaded)
	return loaded, nil
}

// GetFieldTemplates не кэширует пустой список: шаблоны категории могут
// появиться в любой момент.
func (c *Templates) GetFieldTemplates(ctx context.Context, categoryID string) ([]storage.FieldTemplate, error) {
	const op = "storage.cache.GetFieldTemplates"

	key := templatesKeyPrefix + categoryID

	var templates []storage.FieldTemplate
	if c.load(ctx, op, key, &templates) {
		return templates, nil
	}

	loaded, err := c.source.GetFieldTemplates(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if len(loaded) > 0 {
		c.store(ctx, op, key, loaded)
	}
	return loaded, nil
}

func (c *Templates) load(ctx context.Context, op, key string, dst any) bool {
	raw, err := c.kv.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", slog.String("op", op), slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache entry is corrupted", slog.String("op", op), slog.String("key", key), slog.String("error", err.Error()))
		return false
	}

	return true
}

func (c *Templates) store(ctx context.Context, op, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache encode failed", slog.String("op", op), slog.String("key", key), slog.String("error", err.Error()))
		return
	}

	if err := c.kv.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", slog.String("op", op), slog.String("key", key), slog.String("error", err.Error()))
	}
}
