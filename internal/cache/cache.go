// Package cache best-effort кэш агрегатов поверх Redis. Любая ошибка
// Redis означает промах; бизнес-операции от кэша не зависят.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ключи агрегатов.
const (
	KeyAvailability = "boot:availability"
	KeyDaily        = "boot:daily"
	KeyPreorders    = "boot:preorders"
	KeyDiagnostics  = "boot:diagnostics"
	KeyShiftsBump   = "ledger:shifts:bump"
	KeyShiftsPrefix = "ledger:shifts:"

	AggregateTTL = 10 * time.Minute
	TokenTTL     = time.Hour
)

type Cache struct {
	rdb *redis.Client
}

// New оборачивает клиент Redis; nil клиент дает всегда-промах кэш.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// GetJSON читает значение в out. false при промахе или любой ошибке.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// PutJSON пишет значение с TTL, ошибки глотаются.
func (c *Cache) PutJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, ttl)
}

// Del сбрасывает ключи после мутаций.
func (c *Cache) Del(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}

// Enabled сообщает, настроен ли Redis. Проверка админских токенов
// по Redis выполняется только при настроенном клиенте.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Exists проверяет наличие ключа (используется для токенов админа).
func (c *Cache) Exists(ctx context.Context, key string) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	n, err := c.rdb.Exists(ctx, key).Result()
	return err == nil && n > 0
}
