package storage_test

import (
	"context"
	"errors"
	"testing"

	"transfer-relay/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// each pooled connection would otherwise see its own in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&storage.BackendRecord{}))
	return db
}

func TestDBProvider(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	provider := storage.NewDBProvider(db)

	record := &storage.BackendRecord{
		Name: "oss-main", Kind: "oss", Enabled: true, Priority: 5,
		Endpoint: "oss-cn-hangzhou.aliyuncs.com", Bucket: "b", AccessKey: "ak", SecretKey: "sk",
	}
	require.NoError(t, provider.Save(ctx, record))
	require.NoError(t, provider.Save(ctx, &storage.BackendRecord{
		Name: "s3-off", Kind: "s3", Enabled: false, Priority: 1, Bucket: "b", AccessKey: "ak", SecretKey: "sk",
	}))

	t.Run("BackendsReturnsEnabledOnly", func(t *testing.T) {
		configs, err := provider.Backends(ctx)
		require.NoError(t, err)
		require.Len(t, configs, 1)
		assert.Equal(t, "oss-main", configs[0].Name)
		assert.Equal(t, storage.KindOSS, configs[0].Kind)
	})

	t.Run("ListReturnsAll", func(t *testing.T) {
		rows, err := provider.List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "s3-off", rows[0].Name)
	})

	t.Run("SaveUpdatesByName", func(t *testing.T) {
		update := &storage.BackendRecord{
			Name: "oss-main", Kind: "oss", Enabled: true, Priority: 5,
			Endpoint: "oss-cn-beijing.aliyuncs.com", Bucket: "b", AccessKey: "ak", SecretKey: "sk2",
		}
		require.NoError(t, provider.Save(ctx, update))
		assert.Equal(t, record.ID, update.ID)

		configs, err := provider.Backends(ctx)
		require.NoError(t, err)
		assert.Equal(t, "oss-cn-beijing.aliyuncs.com", configs[0].Endpoint)
	})

	t.Run("SaveRejectsInvalid", func(t *testing.T) {
		err := provider.Save(ctx, &storage.BackendRecord{Name: "bad", Kind: "oss"})
		assert.ErrorIs(t, err, storage.ErrInvalidConfig)
	})
}

type failingProvider struct{}

func (failingProvider) Backends(ctx context.Context) ([]storage.BackendConfig, error) {
	return nil, errors.New("unavailable")
}

func TestChainProvider(t *testing.T) {
	ctx := context.Background()
	static := storage.NewStaticProvider(backendConfig("env", storage.KindS3, 0))

	t.Run("FallsThroughEmptyAndFailing", func(t *testing.T) {
		chain := storage.NewChainProvider(failingProvider{}, storage.NewStaticProvider(), static)
		configs, err := chain.Backends(ctx)
		require.NoError(t, err)
		require.Len(t, configs, 1)
		assert.Equal(t, "env", configs[0].Name)
	})

	t.Run("ReturnsFirstErrorWhenNothingFound", func(t *testing.T) {
		chain := storage.NewChainProvider(failingProvider{}, storage.NewStaticProvider())
		_, err := chain.Backends(ctx)
		assert.EqualError(t, err, "unavailable")
	})
}
