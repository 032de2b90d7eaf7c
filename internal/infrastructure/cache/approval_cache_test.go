package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/labcore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockSecretStore struct {
	mock.Mock
}

func (m *MockSecretStore) GetHash(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSecretStore) SetHash(ctx context.Context, hash string) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

type failingCache struct{}

func (failingCache) Get(context.Context) (string, bool, error) { return "", false, errors.New("down") }
func (failingCache) Set(context.Context, string) error         { return errors.New("down") }
func (failingCache) Invalidate(context.Context) error          { return errors.New("down") }

// sharedCache plays the Redis key every process reads
type sharedCache struct {
	mu    sync.Mutex
	hash  string
	found bool
}

func (c *sharedCache) Get(context.Context) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hash, c.found, nil
}

func (c *sharedCache) Set(_ context.Context, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hash, c.found = hash, true
	return nil
}

func (c *sharedCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hash, c.found = "", false
	return nil
}

// refreshFailsCache rejects writes but can still be cleared
type refreshFailsCache struct {
	sharedCache
}

func (c *refreshFailsCache) Set(context.Context, string) error { return errors.New("read only") }

// memoryStore is the settings table shared by both processes
type memoryStore struct {
	mu   sync.Mutex
	hash string
}

func (m *memoryStore) GetHash(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hash, nil
}

func (m *memoryStore) SetHash(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hash = hash
	return nil
}

func TestPassThroughHashCache(t *testing.T) {
	ctx := context.Background()
	c := PassThroughHashCache{}

	require.NoError(t, c.Set(ctx, "h1"))
	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestCachedApprovalSecretStore_Rotation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		cache func() HashCache
	}{
		{"shared cache", func() HashCache { return &sharedCache{} }},
		{"pass-through cache", func() HashCache { return PassThroughHashCache{} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := &memoryStore{}
			c := tc.cache()
			server := NewCachedApprovalSecretStore(db, c, zaptest.NewLogger(t))
			cli := NewCachedApprovalSecretStore(db, c, zaptest.NewLogger(t))

			require.NoError(t, cli.SetHash(ctx, "hash-old-secret-1"))
			hash, err := server.GetHash(ctx)
			require.NoError(t, err)
			assert.Equal(t, "hash-old-secret-1", hash)

			require.NoError(t, cli.SetHash(ctx, "hash-new-secret-2"))
			hash, err = server.GetHash(ctx)
			require.NoError(t, err)
			assert.Equal(t, "hash-new-secret-2", hash)
		})
	}

	t.Run("refresh failure clears the shared entry", func(t *testing.T) {
		db := &memoryStore{}
		c := &refreshFailsCache{}
		c.hash, c.found = "hash-old-secret-1", true
		server := NewCachedApprovalSecretStore(db, c, nil)
		cli := NewCachedApprovalSecretStore(db, c, zaptest.NewLogger(t))

		require.NoError(t, cli.SetHash(ctx, "hash-new-secret-2"))
		hash, err := server.GetHash(ctx)
		require.NoError(t, err)
		assert.Equal(t, "hash-new-secret-2", hash)
	})

	t.Run("cache that cannot be cleared reports stale", func(t *testing.T) {
		store := new(MockSecretStore)
		store.On("SetHash", ctx, "hash-new-secret-2").Return(nil)
		s := NewCachedApprovalSecretStore(store, failingCache{}, zaptest.NewLogger(t))

		err := s.SetHash(ctx, "hash-new-secret-2")
		assert.ErrorIs(t, err, ErrStaleHashCache)
		store.AssertExpectations(t)
	})
}

func TestCachedApprovalSecretStore(t *testing.T) {
	ctx := context.Background()

	t.Run("loads once then serves from cache", func(t *testing.T) {
		store := new(MockSecretStore)
		store.On("GetHash", ctx).Return("stored", nil).Once()
		s := NewCachedApprovalSecretStore(store, &sharedCache{}, zaptest.NewLogger(t))

		for i := 0; i < 3; i++ {
			hash, err := s.GetHash(ctx)
			require.NoError(t, err)
			assert.Equal(t, "stored", hash)
		}
		store.AssertExpectations(t)
	})

	t.Run("unconfigured is not cached", func(t *testing.T) {
		store := new(MockSecretStore)
		store.On("GetHash", ctx).Return("", nil).Twice()
		s := NewCachedApprovalSecretStore(store, &sharedCache{}, nil)

		for i := 0; i < 2; i++ {
			hash, err := s.GetHash(ctx)
			require.NoError(t, err)
			assert.Empty(t, hash)
		}
		store.AssertExpectations(t)
	})

	t.Run("set refreshes the cache", func(t *testing.T) {
		store := new(MockSecretStore)
		store.On("SetHash", ctx, "new").Return(nil)
		c := &sharedCache{}
		require.NoError(t, c.Set(ctx, "old"))
		s := NewCachedApprovalSecretStore(store, c, nil)

		require.NoError(t, s.SetHash(ctx, "new"))
		hash, err := s.GetHash(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new", hash)
	})

	t.Run("store failure leaves cache untouched", func(t *testing.T) {
		store := new(MockSecretStore)
		store.On("SetHash", ctx, "new").Return(errors.New("db down"))
		c := &sharedCache{}
		require.NoError(t, c.Set(ctx, "old"))
		s := NewCachedApprovalSecretStore(store, c, nil)

		assert.Error(t, s.SetHash(ctx, "new"))
		hash, _, _ := c.Get(ctx)
		assert.Equal(t, "old", hash)
	})

	t.Run("broken cache falls through to store", func(t *testing.T) {
		store := new(MockSecretStore)
		store.On("GetHash", ctx).Return("stored", nil)
		store.On("SetHash", ctx, "x").Return(nil)
		s := NewCachedApprovalSecretStore(store, failingCache{}, zaptest.NewLogger(t))

		hash, err := s.GetHash(ctx)
		require.NoError(t, err)
		assert.Equal(t, "stored", hash)
		assert.ErrorIs(t, s.SetHash(ctx, "x"), ErrStaleHashCache)
	})
}

func TestHashCacheFactory(t *testing.T) {
	// nothing listens on port 1
	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1, CacheTTL: time.Minute}

	t.Run("disabled redis reads through", func(t *testing.T) {
		c, err := NewHashCacheFactory().Create(config.RedisConfig{CacheTTL: time.Minute})
		require.NoError(t, err)
		assert.IsType(t, PassThroughHashCache{}, c)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		c, err := NewHashCacheFactory(WithLogger(zaptest.NewLogger(t))).Create(unreachable)
		require.NoError(t, err)
		assert.IsType(t, PassThroughHashCache{}, c)
	})

	t.Run("fallback disabled surfaces the error", func(t *testing.T) {
		_, err := NewHashCacheFactory(WithPassThroughFallback(false)).Create(unreachable)
		assert.Error(t, err)
	})
}
