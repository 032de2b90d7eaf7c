package cache

import (
	"github.com/labcore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// HashCacheFactory creates the approval hash cache for the configured backend
type HashCacheFactory struct {
	logger   *zap.Logger
	fallback bool
}

// FactoryOption configures the HashCacheFactory
type FactoryOption func(*HashCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *HashCacheFactory) {
		f.logger = logger
	}
}

// WithPassThroughFallback serves reads uncached when Redis is unreachable.
// Writers should turn it off: a rotation made without Redis leaves the
// servers that do reach it on the old hash.
func WithPassThroughFallback(enabled bool) FactoryOption {
	return func(f *HashCacheFactory) {
		f.fallback = enabled
	}
}

// NewHashCacheFactory creates a new factory
func NewHashCacheFactory(opts ...FactoryOption) *HashCacheFactory {
	f := &HashCacheFactory{
		logger:   zap.NewNop(),
		fallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis cache when Redis is enabled and a pass-through one
// otherwise. With fallback disabled a Redis connection failure is returned.
func (f *HashCacheFactory) Create(cfg config.RedisConfig) (HashCache, error) {
	if !cfg.Enabled {
		f.logger.Info("Redis disabled, approval hash read from the database on every check")
		return PassThroughHashCache{}, nil
	}

	redisCache, err := NewRedisHashCache(RedisConfig{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		if !f.fallback {
			return nil, err
		}
		f.logger.Warn("Redis unavailable, approval hash read uncached",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return PassThroughHashCache{}, nil
	}

	f.logger.Info("Approval hash cache uses Redis", zap.String("addr", cfg.Addr()))
	return redisCache, nil
}
