package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps travel option listings keyed by filter. Entries are
// namespaced by a version counter so a single INCR invalidates every
// listing at once after inventory changes.
type RedisCache struct {
	client     *redis.Client
	optionsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, optionsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		optionsTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, optionsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, optionsTTL: optionsTTL}
}

// GetOptions returns the listing cached for filter together with the cache
// version it was looked up under. A miss returns nil options. Callers that
// fill the miss pass the version back to SetOptions, so a listing read
// before an invalidation is never stored under the newer version.
func (c *RedisCache) GetOptions(ctx context.Context, filter domain.TravelOptionFilter) ([]domain.TravelOption, int64, error) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, 0, err
	}

	data, err := c.client.Get(ctx, optionsKey(version, filter)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, version, nil
		}
		return nil, version, err
	}

	var options []domain.TravelOption
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, version, err
	}
	return options, version, nil
}

func (c *RedisCache) SetOptions(ctx context.Context, version int64, filter domain.TravelOptionFilter, options []domain.TravelOption) error {
	payload, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, optionsKey(version, filter), payload, c.optionsTTL).Err()
}

// InvalidateOptions bumps the version. Old entries age out through their TTL.
func (c *RedisCache) InvalidateOptions(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey()).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func versionKey() string {
	return "cache:travel_options:version"
}

func optionsKey(version int64, filter domain.TravelOptionFilter) string {
	return fmt.Sprintf("cache:travel_options:v%d:%s|%s|%s", version,
		strings.ToLower(filter.Type), strings.ToLower(filter.Source), strings.ToLower(filter.Destination))
}
