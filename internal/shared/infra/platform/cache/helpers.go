package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const writeTimeout = 200 * time.Millisecond

// SetOrWarn actualiza la caché con un timeout corto. Un fallo solo se registra:
// la caché nunca debe romper el flujo que la usa.
func SetOrWarn(ctx context.Context, cache Cache, key string, value interface{}, ttl time.Duration, log *zap.Logger) {
	if cache == nil {
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := cache.Set(cacheCtx, key, value, ttl); err != nil {
		log.Warn("Cache update failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// GetOrWarn lee de la caché tratando cualquier error como un 'miss'.
func GetOrWarn(ctx context.Context, cache Cache, key string, dest interface{}, log *zap.Logger) bool {
	if cache == nil {
		return false
	}

	hit, err := cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn("Cache read failed, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return hit
}
