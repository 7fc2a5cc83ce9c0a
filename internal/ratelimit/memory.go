package ratelimit

import (
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const memoryPrefix = "relay"

// NewMemoryLimiter counts per process. Expired windows are swept once per period.
func NewMemoryLimiter(limit int, period time.Duration) Limiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          memoryPrefix,
		CleanUpInterval: period,
	})
	return newStoreLimiter(store, limit, period)
}
