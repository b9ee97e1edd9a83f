package transfer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"transfer-relay/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfirmer_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("ObjectPresentVerifies", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindS3)
		backend.On("Exists", mock.Anything, record.Filepath).Return(true, nil)
		confirmer := NewConfirmer(repo, staticResolver{backend: backend}, nil, zap.NewNop())

		got, status, err := confirmer.Confirm(ctx, record.ID, true)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, status)
		assert.True(t, got.HasFile)

		stored, err := repo.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.True(t, stored.HasFile)
		require.NotNil(t, stored.IsSuccess)
		assert.True(t, *stored.IsSuccess)
	})

	t.Run("ObjectAbsentOnlyRecordsClaim", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindS3)
		backend.On("Exists", mock.Anything, record.Filepath).Return(false, nil)
		confirmer := NewConfirmer(repo, staticResolver{backend: backend}, nil, zap.NewNop())

		got, status, err := confirmer.Confirm(ctx, record.ID, true)
		require.NoError(t, err)
		assert.Equal(t, StatusUpdated, status)
		assert.False(t, got.HasFile)

		stored, err := repo.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.False(t, stored.HasFile)
		require.NotNil(t, stored.IsSuccess)
		assert.True(t, *stored.IsSuccess)
	})

	t.Run("CheckFailureOnlyRecordsClaim", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindOSS)
		backend.On("Exists", mock.Anything, record.Filepath).
			Return(false, &storage.OpError{Code: storage.ErrExistenceCheckFailed, Op: "exists", Err: errors.New("timeout")})
		confirmer := NewConfirmer(repo, staticResolver{backend: backend}, nil, zap.NewNop())

		_, status, err := confirmer.Confirm(ctx, record.ID, true)
		require.NoError(t, err)
		assert.Equal(t, StatusUpdated, status)

		stored, err := repo.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.False(t, stored.HasFile)
	})

	t.Run("NegativeClaimSkipsCheck", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindS3)
		confirmer := NewConfirmer(repo, staticResolver{backend: backend}, nil, zap.NewNop())

		_, status, err := confirmer.Confirm(ctx, record.ID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusUpdated, status)
		backend.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)

		stored, err := repo.Get(ctx, record.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.IsSuccess)
		assert.False(t, *stored.IsSuccess)
	})

	t.Run("HasFileNeverRevoked", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindS3)
		backend.On("Exists", mock.Anything, record.Filepath).Return(true, nil)
		confirmer := NewConfirmer(repo, staticResolver{backend: backend}, nil, zap.NewNop())

		_, _, err := confirmer.Confirm(ctx, record.ID, true)
		require.NoError(t, err)
		got, status, err := confirmer.Confirm(ctx, record.ID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusUpdated, status)
		assert.True(t, got.HasFile)

		stored, err := repo.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.True(t, stored.HasFile)
	})

	t.Run("Idempotent", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindS3)
		backend.On("Exists", mock.Anything, record.Filepath).Return(true, nil)
		confirmer := NewConfirmer(repo, staticResolver{backend: backend}, nil, zap.NewNop())

		for range 2 {
			_, status, err := confirmer.Confirm(ctx, record.ID, true)
			require.NoError(t, err)
			assert.Equal(t, StatusConfirmed, status)
		}
	})

	t.Run("LocalFallbackWhenNoBackend", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		local := newLocal(t, repo)
		require.NoError(t, local.backend.Put(ctx, record.Filepath, strings.NewReader("hi"), 2))
		confirmer := NewConfirmer(repo, noBackend, local, zap.NewNop())

		_, status, err := confirmer.Confirm(ctx, record.ID, true)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, status)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		confirmer := NewConfirmer(repo, noBackend, nil, zap.NewNop())

		_, _, err := confirmer.Confirm(ctx, "missing", true)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}
