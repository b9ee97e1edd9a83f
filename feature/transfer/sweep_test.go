package transfer

import (
	"context"
	"strings"
	"testing"
	"time"

	"transfer-relay/core/reconcile"
	"transfer-relay/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// backdate moves a record's start time so the sweep considers it stale.
func backdate(t *testing.T, repo *Repository, id string, age time.Duration) {
	t.Helper()
	err := repo.db.Exec("UPDATE transfer_records SET date_start = ? WHERE id = ?", time.Now().UTC().Add(-age), id).Error
	require.NoError(t, err)
}

func TestSweepAdapter_Reconcile(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSQLite(t))

	uploaded := seedRecord(t, repo, "uploaded.bin")
	abandoned := seedRecord(t, repo, "abandoned.bin")
	fresh := seedRecord(t, repo, "fresh.bin")
	backdate(t, repo, uploaded.ID, 2*time.Hour)
	backdate(t, repo, abandoned.ID, 3*time.Hour)

	backend := newMockBackend(storage.KindS3)
	backend.On("Exists", mock.Anything, uploaded.Filepath).Return(true, nil)
	backend.On("Exists", mock.Anything, abandoned.Filepath).Return(false, nil)
	spec := &reconcile.Spec{
		Adapter:   NewSweepAdapter(repo, staticResolver{backend: backend}, nil),
		OlderThan: testConfig.PendingAge(),
		Workers:   testConfig.SweepWorkers,
	}

	t.Run("DryRun", func(t *testing.T) {
		plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, reconcile.ReconcileOptions{Confirmed: true, DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, 0, executed)
		assert.Equal(t, 2, plan.Summary.Scanned)
		assert.Equal(t, 1, plan.Summary.Present)
		assert.Equal(t, 1, plan.Summary.Missing)

		stored, err := repo.Get(ctx, uploaded.ID)
		require.NoError(t, err)
		assert.False(t, stored.HasFile)
	})

	t.Run("Apply", func(t *testing.T) {
		_, executed, err := reconcile.ReconcileAndApply(ctx, spec, reconcile.ReconcileOptions{Confirmed: true})
		require.NoError(t, err)
		assert.Equal(t, 1, executed)

		stored, err := repo.Get(ctx, uploaded.ID)
		require.NoError(t, err)
		assert.True(t, stored.HasFile)
		assert.Nil(t, stored.IsSuccess)

		stored, err = repo.Get(ctx, abandoned.ID)
		require.NoError(t, err)
		assert.False(t, stored.HasFile)
	})

	backend.AssertNotCalled(t, "Exists", mock.Anything, fresh.Filepath)
}

func TestSweepAdapter_LocalFallback(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSQLite(t))
	record := seedRecord(t, repo, "a.txt")
	local := newLocal(t, repo)
	require.NoError(t, local.backend.Put(ctx, record.Filepath, strings.NewReader("x"), 1))

	adapter := NewSweepAdapter(repo, noBackend, local)
	present, location, err := adapter.CheckStorage(ctx, reconcile.Item{Key: record.ID, Path: record.Filepath})
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "local", location)

	_, _, err = NewSweepAdapter(repo, noBackend, nil).CheckStorage(ctx, reconcile.Item{Path: record.Filepath})
	assert.ErrorIs(t, err, storage.ErrNoBackendConfigured)
}
