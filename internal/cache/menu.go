// Package cache is the redis-backed cache for rendered public menus, guarded
// by a circuit breaker so cache trouble degrades to database reads instead of
// failing the public path.
package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/menucraft/menucraft/internal/storage"
)

const menuTTL = 5 * time.Minute

type MenuCache struct {
	redis   *storage.RedisClient
	breaker *breaker
}

// NewMenuCache accepts a nil redis client: the cache then reports misses and
// ignores writes, which keeps tests and cache-less deployments simple.
func NewMenuCache(redis *storage.RedisClient) *MenuCache {
	return &MenuCache{
		redis:   redis,
		breaker: newBreaker(5, 30*time.Second),
	}
}

// Get returns the cached public-menu payload for a slug, if present.
func (m *MenuCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	if m.redis == nil {
		return nil, false
	}

	var payload string
	err := m.breaker.Call(func() error {
		var err error
		payload, err = m.redis.Get(ctx, menuKey(slug))
		if errors.Is(err, storage.ErrCacheMiss) {
			payload = ""
			return nil
		}
		return err
	})

	if err != nil || payload == "" {
		return nil, false
	}

	return []byte(payload), true
}

func (m *MenuCache) Set(ctx context.Context, slug string, payload []byte) {
	if m.redis == nil {
		return
	}

	err := m.breaker.Call(func() error {
		return m.redis.Set(ctx, menuKey(slug), payload, menuTTL)
	})
	if err != nil && !errors.Is(err, ErrOpen) {
		log.Printf("menu cache set failed for %s: %v", slug, err)
	}
}

// Invalidate drops the cached payload after a menu mutation.
func (m *MenuCache) Invalidate(ctx context.Context, slug string) {
	if m.redis == nil {
		return
	}

	err := m.breaker.Call(func() error {
		return m.redis.Del(ctx, menuKey(slug))
	})
	if err != nil && !errors.Is(err, ErrOpen) {
		log.Printf("menu cache invalidate failed for %s: %v", slug, err)
	}
}

func (m *MenuCache) BreakerState() string {
	return m.breaker.State()
}

func menuKey(slug string) string {
	return "menu:public:" + slug
}
