// Package cache кэширует результаты успешных симуляций: один и тот же
// очищенный сценарий в пределах TTL не гоняется через AI повторно.
// Кэш - забота адаптера, ядро симуляции о нем не знает.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"whatif-server/internal/simulator"
)

const keyPrefix = "whatif:result:"

// ErrCacheMiss возвращается при отсутствии записи.
var ErrCacheMiss = errors.New("result not found in cache")

// ResultCache - кэш результатов симуляций поверх Redis.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewResultCache создает кэш. TTL <= 0 заменяется на 10 минут.
func NewResultCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ResultCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ResultCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("ResultCache"),
	}
}

// Key строит ключ кэша из очищенного текста сценария.
func Key(sanitizedScenario string) string {
	sum := sha256.Sum256([]byte(sanitizedScenario))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get возвращает закэшированный результат или ErrCacheMiss.
func (c *ResultCache) Get(ctx context.Context, key string) (*simulator.SimulationResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read result from cache: %w", err)
	}

	var result simulator.SimulationResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Битую запись выбрасываем, чтобы не отдавать ее снова.
		c.logger.Warn("Dropping corrupted cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return nil, ErrCacheMiss
	}
	return &result, nil
}

// Set сохраняет успешный результат. Неуспешные не кэшируются:
// повторная попытка может пройти.
func (c *ResultCache) Set(ctx context.Context, key string, result *simulator.SimulationResult) error {
	if result == nil || !result.Success {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result for cache: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write result to cache: %w", err)
	}
	return nil
}
