package templates

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/internal/availability/domain"
	sharedCache "github.com/davicafu/availability-relay/internal/shared/infra/platform/cache"
)

// CacheKey devuelve la clave de caché de una plantilla.
func CacheKey(bucket, key string) string {
	return "template:" + bucket + "/" + key
}

// CachedStore decora un TemplateStore con una caché. Cualquier error de la
// caché se trata como un 'miss' y se va al store.
type CachedStore struct {
	next  domain.TemplateStore
	cache sharedCache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedStore(next domain.TemplateStore, cache sharedCache.Cache, ttl time.Duration, log *zap.Logger) *CachedStore {
	return &CachedStore{next: next, cache: cache, ttl: ttl, log: log}
}

func (s *CachedStore) FetchTemplate(ctx context.Context, bucket, key string) (string, error) {
	cacheKey := CacheKey(bucket, key)

	var text string
	if sharedCache.GetOrWarn(ctx, s.cache, cacheKey, &text, s.log) {
		return text, nil
	}

	text, err := s.next.FetchTemplate(ctx, bucket, key)
	if err != nil {
		return "", err
	}

	sharedCache.SetOrWarn(ctx, s.cache, cacheKey, text, s.ttl, s.log)
	return text, nil
}

var _ domain.TemplateStore = (*CachedStore)(nil)
