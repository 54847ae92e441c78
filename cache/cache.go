// Package cache is a tiny memoization layer over an in-memory key:value
// store with per-entry expiration.
package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultExpire = 5 * time.Minute
	defaultPurge  = 30 * time.Second
)

// Cache is the shared in-memory store.
var Cache = cache.New(defaultExpire, defaultPurge)

// Get returns the value for 'key'.
//
// cache hit:
//
//	pull the value from the cache and return it.
//
// cache miss:
//
//	call 'cb' to get a new value. If the callback doesn't return an error
//	the value is cached with no expiration date and returned.
func Get[T any](key string, cb func() (T, error)) (T, error) {
	return GetWithExpiration[T](key, cb, cache.NoExpiration)
}

// GetWithExpiration is Get with an explicit expiration for newly cached
// values.
func GetWithExpiration[T any](key string, cb func() (T, error), expire time.Duration) (T, error) {
	if x, found := Cache.Get(key); found {
		return x.(T), nil
	}

	res, err := cb()
	// We don't cache errors
	if err == nil {
		Cache.Set(key, res, expire)
	}
	return res, err
}

// Flush drops every cached entry. Tests use it to isolate cases.
func Flush() {
	Cache.Flush()
}
