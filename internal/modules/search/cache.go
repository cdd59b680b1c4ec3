package search

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"taxibooking/internal/events"
)

const cachePrefix = "taxi:search"

const catalogVersionKey = cachePrefix + ":ver:catalog"

// RedisCache keeps a version counter per day plus one for the whole catalog
// and folds both into every entry key, so bumping either counter orphans the
// affected entries until they expire.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func versionKey(day string) string {
	return fmt.Sprintf("%s:ver:%s", cachePrefix, day)
}

func entryKey(day string, v Version, query string) string {
	sum := sha1.Sum([]byte(query))
	return fmt.Sprintf("%s:%s:c%d:v%d:%x", cachePrefix, day, v.Catalog, v.Day, sum[:])
}

func (c *RedisCache) version(ctx context.Context, day string) (Version, error) {
	vals, err := c.rdb.MGet(ctx, catalogVersionKey, versionKey(day)).Result()
	if err != nil {
		return Version{}, err
	}
	var v Version
	if v.Catalog, err = counter(vals[0]); err != nil {
		return Version{}, err
	}
	if v.Day, err = counter(vals[1]); err != nil {
		return Version{}, err
	}
	return v, nil
}

func counter(raw interface{}) (int64, error) {
	s, ok := raw.(string)
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cache version %q: %w", s, err)
	}
	return n, nil
}

// Get returns the entry for the current version along with that version. On
// a miss the version is still returned so the caller can store a fresh result
// under the version it read before computing it.
func (c *RedisCache) Get(ctx context.Context, day, query string) ([]byte, Version, bool, error) {
	v, err := c.version(ctx, day)
	if err != nil {
		return nil, Version{}, false, err
	}
	bs, err := c.rdb.Get(ctx, entryKey(day, v, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, v, false, nil
	}
	if err != nil {
		return nil, v, false, err
	}
	return bs, v, true, nil
}

// Set stores payload under v. A result computed before an invalidation lands
// under the old version and is never read.
func (c *RedisCache) Set(ctx context.Context, day, query string, v Version, payload []byte) error {
	return c.rdb.SetEx(ctx, entryKey(day, v, query), payload, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, day string) error {
	return c.bump(ctx, versionKey(day))
}

func (c *RedisCache) InvalidateAll(ctx context.Context) error {
	return c.bump(ctx, catalogVersionKey)
}

func (c *RedisCache) bump(ctx context.Context, key string) error {
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	// the counter only has to outlive the entries it guards
	pipe.Expire(ctx, key, 48*time.Hour+c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidator drops cached results for the ride day of any booking event that
// changes which routes are free, and every cached result on catalog changes.
func Invalidator(cache Cache) events.Handler {
	return func(ctx context.Context, e events.Event) error {
		if e.Type == events.CatalogChanged {
			return cache.InvalidateAll(ctx)
		}
		if e.RideDay == "" {
			return nil
		}
		return cache.Invalidate(ctx, e.RideDay)
	}
}

// InvalidatingEvents are the booking events that change route availability.
var InvalidatingEvents = []events.Type{
	events.BookingCreated,
	events.BookingCancelled,
	events.BookingCompleted,
	events.CatalogChanged,
}
