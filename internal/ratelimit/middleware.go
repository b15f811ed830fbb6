// Package ratelimit wires Redis-backed request rate limiting for the API.
package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Middleware builds a per-client-IP rate limiting middleware storing counters
// in Redis. perMinute <= 0 disables limiting.
func Middleware(client *redis.Client, perMinute int64, prefix string) (func(http.Handler) http.Handler, error) {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   prefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("ratelimit: init store: %w", err)
	}
	instance := limiter.New(store, limiter.Rate{
		Period: time.Minute,
		Limit:  perMinute,
	})
	return mstdlib.NewMiddleware(instance).Handler, nil
}
