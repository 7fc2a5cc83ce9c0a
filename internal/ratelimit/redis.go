package ratelimit

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewRedisLimiter shares counters across replicas through Redis. Keys are
// "<prefix>:<key>".
func NewRedisLimiter(client *redis.Client, prefix string, limit int, period time.Duration) (Limiter, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
	if err != nil {
		return nil, fmt.Errorf("creating redis store: %w", err)
	}
	return newStoreLimiter(store, limit, period), nil
}
