package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	sharedCache "github.com/davicafu/availability-relay/internal/shared/infra/platform/cache"
)

// ErrCacheDown se devuelve en todas las operaciones de un DummyCache caído.
var ErrCacheDown = errors.New("cache down")

// DummyCache es una caché en memoria para tests, segura para concurrencia.
// Guarda JSON para comportarse como Redis. Down simula una caché no disponible.
type DummyCache struct {
	store map[string][]byte
	mu    sync.RWMutex

	Down bool
	Sets int
}

// Verificación estática
var _ sharedCache.Cache = (*DummyCache)(nil)

func NewDummyCache() *DummyCache {
	return &DummyCache{
		store: make(map[string][]byte),
	}
}

func (c *DummyCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Down {
		return false, ErrCacheDown
	}
	data, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DummyCache) Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Down {
		return ErrCacheDown
	}
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.store[key] = data
	c.Sets++
	return nil
}

func (c *DummyCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Down {
		return ErrCacheDown
	}
	delete(c.store, key)
	return nil
}
