package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// GetOrLoadJSON caches load's result as JSON. A nil Cache calls load directly.
// A nil result is not cached so missing records are re-read next time.
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	if c == nil {
		return load(ctx)
	}
	var loaded *T
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if v == nil {
			return nil, errMiss
		}
		loaded = v
		return json.Marshal(v)
	})
	if errors.Is(err, errMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if loaded != nil {
		return loaded, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}

type missErr struct{}

func (missErr) Error() string { return "cache: nothing to store" }

var errMiss error = missErr{}
