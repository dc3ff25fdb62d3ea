package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

type loadFunc[T any] func(ctx context.Context, key string) (T, error)

// newLoadableCache puts a ristretto-backed gocache in front of load. The
// plain cache is returned too so callers can peek without loading.
func newLoadableCache[T any](load loadFunc[T], ttl time.Duration) (*cache.LoadableCache[T], *cache.Cache[T], error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)

	loadFunction := func(ctx context.Context, key any) (T, []store.Option, error) {
		var zero T
		k, ok := key.(string)
		if !ok {
			return zero, nil, fmt.Errorf("invalid cache key type: expected string, got %T", key)
		}
		v, err := load(ctx, k)
		return v, []store.Option{store.WithExpiration(ttl), store.WithCost(1)}, err
	}

	plain := cache.New[T](ristrettoStore)
	return cache.NewLoadable[T](loadFunction, plain), plain, nil
}
