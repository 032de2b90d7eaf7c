package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/labcore/backend/internal/domain/security"
	"go.uber.org/zap"
)

// HashCache holds the approval secret hash so stations skip the settings table
type HashCache interface {
	// Get returns the cached hash and whether it was present
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, hash string) error
	Invalidate(ctx context.Context) error
}

// PassThroughHashCache caches nothing. It stands in when no cache shared
// by every process is available: a copy held in one process would keep
// serving a rotated hash until it expired.
type PassThroughHashCache struct{}

func (PassThroughHashCache) Get(context.Context) (string, bool, error) { return "", false, nil }
func (PassThroughHashCache) Set(context.Context, string) error         { return nil }
func (PassThroughHashCache) Invalidate(context.Context) error          { return nil }

// CachedApprovalSecretStore reads the approval hash through a cache.
// Cache failures fall back to the underlying store.
type CachedApprovalSecretStore struct {
	store  security.ApprovalSecretStore
	cache  HashCache
	logger *zap.Logger
}

// NewCachedApprovalSecretStore wraps store with cache
func NewCachedApprovalSecretStore(store security.ApprovalSecretStore, cache HashCache, logger *zap.Logger) *CachedApprovalSecretStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedApprovalSecretStore{store: store, cache: cache, logger: logger}
}

// GetHash returns the cached hash, loading it from the store on a miss
func (s *CachedApprovalSecretStore) GetHash(ctx context.Context) (string, error) {
	hash, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("approval hash cache read failed", zap.Error(err))
	} else if ok {
		return hash, nil
	}

	hash, err = s.store.GetHash(ctx)
	if err != nil {
		return "", err
	}
	if hash != "" {
		if err := s.cache.Set(ctx, hash); err != nil {
			s.logger.Warn("approval hash cache write failed", zap.Error(err))
		}
	}
	return hash, nil
}

// SetHash writes the store first, then refreshes the cache. When the cache
// can be neither refreshed nor cleared the new hash is stored but readers
// may see the old one until the entry expires; that case is returned as
// ErrStaleHashCache.
func (s *CachedApprovalSecretStore) SetHash(ctx context.Context, hash string) error {
	if err := s.store.SetHash(ctx, hash); err != nil {
		return err
	}
	setErr := s.cache.Set(ctx, hash)
	if setErr == nil {
		return nil
	}
	s.logger.Warn("approval hash cache refresh failed, invalidating", zap.Error(setErr))
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("approval hash cache invalidation failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStaleHashCache, errors.Join(setErr, err))
	}
	return nil
}

// ErrStaleHashCache means the approval hash was stored but the shared cache
// still holds the previous one
var ErrStaleHashCache = errors.New("approval hash stored but cache not refreshed")

var (
	_ HashCache                    = PassThroughHashCache{}
	_ security.ApprovalSecretStore = (*CachedApprovalSecretStore)(nil)
)
