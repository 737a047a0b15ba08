package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryHook answers GET, SET and INCR from a map so the cache can be
// exercised without a Redis server. Commands never reach the network.
type memoryHook struct {
	mu   sync.Mutex
	data map[string]string
}

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	client.AddHook(&memoryHook{data: make(map[string]string)})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheWithClient(client, time.Minute)
}

func (h *memoryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("dial %s: not available in tests", addr)
	}
}

func (h *memoryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *memoryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()

		args := cmd.Args()
		key := fmt.Sprint(args[1])
		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := h.data[key]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			switch v := args[2].(type) {
			case []byte:
				h.data[key] = string(v)
			default:
				h.data[key] = fmt.Sprint(v)
			}
			c.SetVal("OK")
		case *redis.IntCmd:
			n, _ := strconv.ParseInt(h.data[key], 10, 64)
			n++
			h.data[key] = strconv.FormatInt(n, 10)
			c.SetVal(n)
		default:
			err := fmt.Errorf("unsupported command %v", args)
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

func TestOptionsKey(t *testing.T) {
	assert.Equal(t, "cache:travel_options:v0:||", optionsKey(0, domain.TravelOptionFilter{}))
	assert.Equal(t, "cache:travel_options:v3:flight|new york|",
		optionsKey(3, domain.TravelOptionFilter{Type: "Flight", Source: "New York"}))
	assert.Equal(t,
		optionsKey(1, domain.TravelOptionFilter{Destination: "LONDON"}),
		optionsKey(1, domain.TravelOptionFilter{Destination: "london"}),
		"filters differing only in case share an entry")
}

func TestRedisCache_UnreachableServerReturnsErrors(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "127.0.0.1:1"}, time.Minute)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err := c.GetOptions(ctx, domain.TravelOptionFilter{})
	assert.Error(t, err)
	assert.Error(t, c.InvalidateOptions(ctx))
}

func TestRedisCache_HitAfterFill(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	filter := domain.TravelOptionFilter{Type: "Flight"}
	listing := []domain.TravelOption{{ID: "F101", Price: domain.MustParseMoney("850.00"), TotalSeats: 150, AvailableSeats: 150}}

	got, version, err := c.GetOptions(ctx, filter)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, version)

	require.NoError(t, c.SetOptions(ctx, version, filter, listing))

	got, _, err = c.GetOptions(ctx, domain.TravelOptionFilter{Type: "flight"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 150, got[0].AvailableSeats)
	assert.Equal(t, "850.00", got[0].Price.String())
}

func TestRedisCache_InvalidationBetweenMissAndFill(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	filter := domain.TravelOptionFilter{}

	_, seen, err := c.GetOptions(ctx, filter)
	require.NoError(t, err)

	// A booking commits while the listing is being read from the store.
	require.NoError(t, c.InvalidateOptions(ctx))

	stale := []domain.TravelOption{{ID: "B301", TotalSeats: 50, AvailableSeats: 5}}
	require.NoError(t, c.SetOptions(ctx, seen, filter, stale))

	got, version, err := c.GetOptions(ctx, filter)
	require.NoError(t, err)
	assert.Nil(t, got, "listing read before the invalidation must not be served")
	assert.Equal(t, seen+1, version)
}
