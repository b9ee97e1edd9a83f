package health

import (
	"context"
	"testing"

	"transfer-relay/core/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB monitors pings, so gorm's automatic ping on open is disabled.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

// mockReporter is a testify mock of StorageReporter.
type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) Report(ctx context.Context) ([]storage.BackendStatus, error) {
	args := m.Called(ctx)
	statuses, _ := args.Get(0).([]storage.BackendStatus)
	return statuses, args.Error(1)
}

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"column:name"`
}
