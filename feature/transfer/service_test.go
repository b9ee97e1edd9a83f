package transfer

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"transfer-relay/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newS3Backend(t *testing.T) *storage.S3Backend {
	t.Helper()
	backend, err := storage.NewS3(storage.BackendConfig{
		Name:      "minio",
		Kind:      storage.KindS3,
		Enabled:   true,
		Endpoint:  "localhost:9000",
		Bucket:    "transfers",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		PathStyle: true,
	})
	require.NoError(t, err)
	return backend
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("PresignsUploadAndDownload", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		svc := NewService(repo, staticResolver{backend: newS3Backend(t)}, nil, zap.NewNop(), testConfig)
		svc.now = func() time.Time { return time.Date(2024, 12, 6, 8, 30, 0, 0, time.UTC) }

		result, err := svc.Create(ctx, CreateRequest{
			Filename: "report.pdf",
			Asset:    "web-01",
			Account:  "root",
			User:     "alice",
		})
		require.NoError(t, err)

		assert.Equal(t, "FTP_FILES/2024-12-06/"+result.TransferID+"/report.pdf", result.Filepath)
		assert.Equal(t, 3600, result.ExpiresSeconds)
		assert.Equal(t, storage.KindS3, result.BackendKind)

		upload, err := url.Parse(result.UploadURL)
		require.NoError(t, err)
		download, err := url.Parse(result.DownloadURL)
		require.NoError(t, err)
		assert.Equal(t, "/transfers/"+result.Filepath, upload.Path)
		assert.Equal(t, upload.Path, download.Path)
		assert.Equal(t, "PutObject", upload.Query().Get("x-id"))
		assert.Equal(t, "GetObject", download.Query().Get("x-id"))
		assert.Equal(t, "3600", upload.Query().Get("X-Amz-Expires"))

		stored, err := repo.Get(ctx, result.TransferID)
		require.NoError(t, err)
		assert.False(t, stored.HasFile)
		assert.Nil(t, stored.IsSuccess)
		assert.Equal(t, "alice", stored.User)
		assert.NotEmpty(t, stored.Session)
		assert.Equal(t, result.Filepath, stored.Filepath)
	})

	t.Run("ExpiryIsClamped", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		svc := NewService(repo, staticResolver{backend: newS3Backend(t)}, nil, zap.NewNop(), testConfig)

		result, err := svc.Create(ctx, CreateRequest{Filename: "a.bin", ExpiresSeconds: 30 * 24 * 3600})
		require.NoError(t, err)
		assert.Equal(t, 7*24*3600, result.ExpiresSeconds)
	})

	t.Run("Validation", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		svc := NewService(repo, noBackend, nil, zap.NewNop(), testConfig)

		_, err := svc.Create(ctx, CreateRequest{Filename: "  "})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = svc.Create(ctx, CreateRequest{Filename: "a", Operate: "delete"})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = svc.Create(ctx, CreateRequest{Filename: "a", ExpiresSeconds: -5})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("NoBackendCreatesNothing", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		svc := NewService(repo, noBackend, nil, zap.NewNop(), testConfig)

		_, err := svc.Create(ctx, CreateRequest{Filename: "a.txt"})
		assert.ErrorIs(t, err, storage.ErrNoBackendConfigured)

		_, total, err := repo.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("UploadPresignFailureRollsBack", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		backend := newMockBackend(storage.KindS3)
		backend.On("Presign", mock.Anything, mock.Anything, storage.DirectionUpload, time.Hour).
			Return("", errors.New("invalid credentials"))
		svc := NewService(repo, staticResolver{backend: backend}, nil, zap.NewNop(), testConfig)

		_, err := svc.Create(ctx, CreateRequest{Filename: "a.txt"})
		assert.ErrorIs(t, err, storage.ErrPresignGenerationFailed)

		_, total, err := repo.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("DownloadPresignFailureKeepsRecord", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		backend := newMockBackend(storage.KindS3)
		backend.On("Presign", mock.Anything, mock.Anything, storage.DirectionUpload, time.Hour).Return("https://s3/put", nil)
		backend.On("Presign", mock.Anything, mock.Anything, storage.DirectionDownload, time.Hour).Return("", errors.New("boom"))
		svc := NewService(repo, staticResolver{backend: backend}, nil, zap.NewNop(), testConfig)

		result, err := svc.Create(ctx, CreateRequest{Filename: "a.txt"})
		require.NoError(t, err)
		assert.Equal(t, "https://s3/put", result.UploadURL)
		assert.Empty(t, result.DownloadURL)

		_, err = repo.Get(ctx, result.TransferID)
		assert.NoError(t, err)
	})
}

func TestService_PresignedURL(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSQLite(t))
	record := seedRecord(t, repo, "a.txt")
	svc := NewService(repo, staticResolver{backend: newS3Backend(t)}, nil, zap.NewNop(), testConfig)

	grant, err := svc.PresignedURL(ctx, record.ID, "upload", 120)
	require.NoError(t, err)
	assert.Equal(t, storage.DirectionUpload, grant.Direction)
	assert.Contains(t, grant.URL, "X-Amz-Expires=120")

	grant, err = svc.PresignedURL(ctx, record.ID, "", 0)
	require.NoError(t, err)
	assert.Equal(t, storage.DirectionDownload, grant.Direction)

	_, err = svc.PresignedURL(ctx, record.ID, "delete", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("RedirectsWhenObjectExists", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindS3)
		backend.On("Exists", mock.Anything, record.Filepath).Return(true, nil)
		backend.On("Presign", mock.Anything, record.Filepath, storage.DirectionDownload, time.Hour).Return("https://s3/get", nil)
		svc := NewService(repo, staticResolver{backend: backend}, newLocal(t, repo), zap.NewNop(), testConfig)

		result, err := svc.Download(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://s3/get", result.RedirectURL)
		assert.Nil(t, result.File)
	})

	t.Run("FallsBackToLocal", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindS3)
		backend.On("Exists", mock.Anything, record.Filepath).Return(false, nil)
		local := newLocal(t, repo)
		require.NoError(t, local.Save(ctx, record, strings.NewReader("local"), 5))
		svc := NewService(repo, staticResolver{backend: backend}, local, zap.NewNop(), testConfig)

		result, err := svc.Download(ctx, record.ID)
		require.NoError(t, err)
		assert.Empty(t, result.RedirectURL)
		require.Equal(t, LocalPathOk, result.File.State)
		defer result.File.Reader.Close()
		body, _ := io.ReadAll(result.File.Reader)
		assert.Equal(t, "local", string(body))
	})

	t.Run("MissingEverywhere", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		svc := NewService(repo, noBackend, newLocal(t, repo), zap.NewNop(), testConfig)

		result, err := svc.Download(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, LocalPathMissing, result.File.State)
	})

	t.Run("NoLocalStorage", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		svc := NewService(repo, noBackend, nil, zap.NewNop(), testConfig)

		result, err := svc.Download(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, LocalPathMissing, result.File.State)
		assert.Equal(t, "Local storage is not configured", result.File.Message)
	})
}

func TestService_Upload(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSQLite(t))
	record := seedRecord(t, repo, "a.txt")

	t.Run("WithoutLocalStorage", func(t *testing.T) {
		svc := NewService(repo, noBackend, nil, zap.NewNop(), testConfig)
		_, err := svc.Upload(ctx, record.ID, strings.NewReader("x"), 1)
		assert.Error(t, err)
	})

	t.Run("Stores", func(t *testing.T) {
		svc := NewService(repo, noBackend, newLocal(t, repo), zap.NewNop(), testConfig)
		got, err := svc.Upload(ctx, record.ID, strings.NewReader("x"), 1)
		require.NoError(t, err)
		assert.True(t, got.HasFile)
	})

	t.Run("UnknownRecord", func(t *testing.T) {
		svc := NewService(repo, noBackend, newLocal(t, repo), zap.NewNop(), testConfig)
		_, err := svc.Upload(ctx, "missing", strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}
