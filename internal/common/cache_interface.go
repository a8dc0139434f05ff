package common

import "time"

// CacheInterface abstracts the cache so services do not care whether the
// backing store is in-memory or Redis.
type CacheInterface interface {
	Set(key string, value interface{}, duration time.Duration)
	Get(key string) (interface{}, bool)
	Delete(key string)
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)
	Close() error
}
