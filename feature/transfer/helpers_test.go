package transfer

import (
	"context"
	"testing"
	"time"

	"transfer-relay/core/storage"
	"transfer-relay/core/storage/mocks"
	"transfer-relay/feature/transfer/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testConfig = Config{
	PathPrefix:            "FTP_FILES",
	DefaultExpiresSeconds: 3600,
	MaxExpiresSeconds:     7 * 24 * 3600,
	PendingAgeMinutes:     60,
	SweepWorkers:          4,
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// setupSQLite opens a private in-memory database with the schema migrated.
func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.TransferRecord{}))
	return db
}

// staticResolver always returns the same backend or error.
type staticResolver struct {
	backend storage.Backend
	err     error
}

func (r staticResolver) Resolve(ctx context.Context) (storage.Backend, error) {
	return r.backend, r.err
}

var noBackend = staticResolver{err: storage.ErrNoBackendConfigured}

func newMockBackend(kind storage.Kind) *mocks.Backend {
	b := new(mocks.Backend)
	b.On("Kind").Return(kind).Maybe()
	b.On("Name").Return("test-" + string(kind)).Maybe()
	return b
}

func newLocal(t *testing.T, store Store) *LocalFallback {
	t.Helper()
	backend, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return NewLocalFallback(backend, store, zap.NewNop())
}

// seedRecord inserts a pending record and returns it.
func seedRecord(t *testing.T, repo *Repository, filename string) *models.TransferRecord {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().UTC()
	record := &models.TransferRecord{
		ID:        id,
		Operate:   models.OperateUpload,
		User:      "alice",
		Asset:     "web-01",
		Account:   "root",
		Session:   "s-1",
		Filename:  filename,
		Filepath:  models.BuildFilepath(testConfig.PathPrefix, now, id, filename),
		DateStart: now,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}
