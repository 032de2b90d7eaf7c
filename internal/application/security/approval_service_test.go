package security

import (
	"context"
	"errors"
	"testing"

	"github.com/labcore/backend/internal/domain/security"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(secret string) (string, error) {
	args := m.Called(secret)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, secret string) error {
	args := m.Called(hash, secret)
	return args.Error(0)
}

func TestApprovalService_ConfigureApprovalSecret(t *testing.T) {
	ctx := context.Background()

	t.Run("stores hash of long enough secret", func(t *testing.T) {
		store := new(MockSecretStore)
		hasher := new(MockHasher)
		hasher.On("Hash", "supervisor-1").Return("hashed", nil)
		store.On("SetHash", mock.Anything, "hashed").Return(nil)

		svc := NewApprovalService(store, hasher, 8, nil)
		require.NoError(t, svc.ConfigureApprovalSecret(ctx, "supervisor-1"))

		store.AssertExpectations(t)
		hasher.AssertExpectations(t)
	})

	t.Run("rejects short secret without hashing", func(t *testing.T) {
		store := new(MockSecretStore)
		hasher := new(MockHasher)

		svc := NewApprovalService(store, hasher, 8, nil)
		err := svc.ConfigureApprovalSecret(ctx, "short")

		require.Error(t, err)
		assert.True(t, errors.Is(err, security.ErrApprovalSecretTooShort))
		assert.Equal(t, shared.CategoryInput, shared.CategoryOf(err))
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 8, de.Details["min_length"])
		assert.Equal(t, 5, de.Details["length"])
		hasher.AssertNotCalled(t, "Hash", mock.Anything)
		store.AssertNotCalled(t, "SetHash", mock.Anything, mock.Anything)
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		store := new(MockSecretStore)
		hasher := new(MockHasher)
		hasher.On("Hash", "ééééé").Return("h", nil)
		store.On("SetHash", mock.Anything, "h").Return(nil)

		svc := NewApprovalService(store, hasher, 5, nil)
		require.NoError(t, svc.ConfigureApprovalSecret(ctx, "ééééé"))

		err := svc.ConfigureApprovalSecret(ctx, "éééé")
		assert.True(t, errors.Is(err, security.ErrApprovalSecretTooShort))
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		store := new(MockSecretStore)
		hasher := new(MockHasher)
		boom := errors.New("disk full")
		hasher.On("Hash", mock.Anything).Return("hashed", nil)
		store.On("SetHash", mock.Anything, "hashed").Return(boom)

		svc := NewApprovalService(store, hasher, 4, nil)
		err := svc.ConfigureApprovalSecret(ctx, "abcdef")
		assert.ErrorIs(t, err, boom)
	})
}

func TestApprovalService_VerifyCredential(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		hash       string
		credential string
		compareErr error
		wantErr    error
	}{
		{name: "matching credential", hash: "h", credential: "secret", wantErr: nil},
		{name: "wrong credential", hash: "h", credential: "nope", compareErr: errors.New("mismatch"), wantErr: security.ErrApprovalDenied},
		{name: "not configured", hash: "", credential: "secret", wantErr: security.ErrApprovalNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockSecretStore)
			hasher := new(MockHasher)
			store.On("GetHash", mock.Anything).Return(tt.hash, nil)
			hasher.On("Compare", tt.hash, tt.credential).Return(tt.compareErr).Maybe()

			svc := NewApprovalService(store, hasher, 8, nil)
			err := svc.VerifyCredential(ctx, tt.credential)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Equal(t, shared.CategoryNotPermitted, shared.CategoryOf(err))
		})
	}

	t.Run("empty credential is denied without comparing", func(t *testing.T) {
		store := new(MockSecretStore)
		hasher := new(MockHasher)
		store.On("GetHash", mock.Anything).Return("h", nil)

		svc := NewApprovalService(store, hasher, 8, nil)
		err := svc.VerifyCredential(ctx, "")

		assert.True(t, errors.Is(err, security.ErrApprovalDenied))
		hasher.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
	})

	t.Run("store error is not reported as denial", func(t *testing.T) {
		store := new(MockSecretStore)
		store.On("GetHash", mock.Anything).Return("", errors.New("connection refused"))

		svc := NewApprovalService(store, new(MockHasher), 8, nil)
		err := svc.VerifyCredential(ctx, "secret")

		require.Error(t, err)
		assert.False(t, errors.Is(err, security.ErrApprovalDenied))
		assert.Equal(t, shared.CategoryInternal, shared.CategoryOf(err))
	})
}

func TestApprovalService_IsConfigured(t *testing.T) {
	store := new(MockSecretStore)
	store.On("GetHash", mock.Anything).Return("h", nil).Once()
	store.On("GetHash", mock.Anything).Return("", nil).Once()

	svc := NewApprovalService(store, new(MockHasher), 0, nil)

	ok, err := svc.IsConfigured(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsConfigured(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
