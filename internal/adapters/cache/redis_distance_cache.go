package cache

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/obs"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const distanceKeyPrefix = "distance:"

// RedisDistanceCache keeps routing results for a short time. Travel times
// depend on live traffic, so entries must expire quickly.
type RedisDistanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDistanceCache(rdb *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, ttl: ttl}
}

type cachedDistance struct {
	Meters  int    `json:"m"`
	Seconds int    `json:"s"`
	Text    string `json:"t"`
}

func distanceKey(origin, destination domain.Location) string {
	return distanceKeyPrefix + origin.Key() + "|" + destination.Key()
}

// Get reports ok=false on a miss.
func (c *RedisDistanceCache) Get(ctx context.Context, origin, destination domain.Location) (_ ports.DistanceResult, _ bool, err error) {
	defer obs.Time(ctx, "distance.cache.Get")(&err)

	if c.rdb == nil {
		return ports.DistanceResult{}, false, errors.New("distance cache: redis client is nil")
	}

	raw, err := c.rdb.Get(ctx, distanceKey(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get distance cache: %w", err)
	}

	var v cachedDistance
	if err := json.Unmarshal(raw, &v); err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get distance cache: decode: %w", err)
	}
	return ports.DistanceResult{DistanceMeters: v.Meters, DurationSeconds: v.Seconds, DurationText: v.Text}, true, nil
}

func (c *RedisDistanceCache) Put(ctx context.Context, origin, destination domain.Location, r ports.DistanceResult) error {
	if c.rdb == nil {
		return errors.New("distance cache: redis client is nil")
	}

	raw, err := json.Marshal(cachedDistance{Meters: r.DistanceMeters, Seconds: r.DurationSeconds, Text: r.DurationText})
	if err != nil {
		return fmt.Errorf("put distance cache: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, distanceKey(origin, destination), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put distance cache: %w", err)
	}
	return nil
}
