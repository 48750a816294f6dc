package cache

import "fmt"

// NewCache creates a cache backend from the given configuration.
func NewCache(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	if !config.Backend.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCacheType, config.Backend)
	}

	switch config.Backend {
	case CacheTypeRedis:
		return NewRedisCache(config)
	default:
		return NewMemoryCache(config), nil
	}
}
