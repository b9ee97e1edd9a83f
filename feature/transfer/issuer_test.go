package transfer

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"transfer-relay/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIssuer_Expiry(t *testing.T) {
	issuer := NewIssuer(nil, nil, zap.NewNop(), testConfig)

	tests := []struct {
		name    string
		seconds int
		want    time.Duration
		wantErr bool
	}{
		{"Default", 0, time.Hour, false},
		{"Explicit", 600, 10 * time.Minute, false},
		{"AtMaximum", 7 * 24 * 3600, 7 * 24 * time.Hour, false},
		{"Clamped", 30 * 24 * 3600, 7 * 24 * time.Hour, false},
		{"Overflow", 10_000_000_000, 7 * 24 * time.Hour, false},
		{"MaxInt", math.MaxInt, 7 * 24 * time.Hour, false},
		{"Negative", -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := issuer.Expiry(tt.seconds)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssuer_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordNotFound", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		issuer := NewIssuer(repo, noBackend, zap.NewNop(), testConfig)

		_, _, err := issuer.Issue(ctx, "missing", storage.DirectionDownload, 0)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("NoBackend", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		issuer := NewIssuer(repo, noBackend, zap.NewNop(), testConfig)

		grant, got, err := issuer.Issue(ctx, record.ID, storage.DirectionDownload, 0)
		assert.ErrorIs(t, err, storage.ErrNoBackendConfigured)
		assert.Nil(t, grant)
		assert.Equal(t, record.ID, got.ID)
	})

	t.Run("SignsRecordFilepath", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindOSS)
		backend.On("Presign", mock.Anything, record.Filepath, storage.DirectionUpload, 15*time.Minute).
			Return("https://bucket.oss.example.com/signed", nil)
		issuer := NewIssuer(repo, staticResolver{backend: backend}, zap.NewNop(), testConfig)

		grant, _, err := issuer.Issue(ctx, record.ID, storage.DirectionUpload, 900)
		require.NoError(t, err)
		assert.Equal(t, "https://bucket.oss.example.com/signed", grant.URL)
		assert.Equal(t, storage.DirectionUpload, grant.Direction)
		assert.Equal(t, 900, grant.ExpiresInSeconds)
		assert.Equal(t, storage.KindOSS, grant.BackendKind)
		assert.Equal(t, record.Filepath, grant.Filepath)
		backend.AssertExpectations(t)
	})

	t.Run("SDKFailureIsWrapped", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindOBS)
		backend.On("Presign", mock.Anything, record.Filepath, storage.DirectionDownload, time.Hour).
			Return("", errors.New("signature mismatch"))
		issuer := NewIssuer(repo, staticResolver{backend: backend}, zap.NewNop(), testConfig)

		_, _, err := issuer.Issue(ctx, record.ID, storage.DirectionDownload, 0)
		assert.ErrorIs(t, err, storage.ErrPresignGenerationFailed)
		var opErr *storage.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, storage.KindOBS, opErr.Kind)
		assert.Equal(t, record.Filepath, opErr.Path)
	})

	t.Run("LocalCannotPresign", func(t *testing.T) {
		repo := NewRepository(setupSQLite(t))
		record := seedRecord(t, repo, "a.txt")
		backend := newMockBackend(storage.KindLocal)
		issuer := NewIssuer(repo, staticResolver{backend: backend}, zap.NewNop(), testConfig)

		_, _, err := issuer.Issue(ctx, record.ID, storage.DirectionDownload, 0)
		assert.ErrorIs(t, err, storage.ErrPresignUnsupported)
		backend.AssertNotCalled(t, "Presign", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestIssuer_IssuePair(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSQLite(t))
	record := seedRecord(t, repo, "report.pdf")
	issuer := NewIssuer(repo, nil, zap.NewNop(), testConfig)

	t.Run("SamePathBothDirections", func(t *testing.T) {
		backend := newMockBackend(storage.KindS3)
		backend.On("Presign", mock.Anything, record.Filepath, storage.DirectionUpload, time.Hour).Return("https://s3/put", nil)
		backend.On("Presign", mock.Anything, record.Filepath, storage.DirectionDownload, time.Hour).Return("https://s3/get", nil)

		pair, err := issuer.IssuePair(ctx, backend, record, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "https://s3/put", pair.Upload.URL)
		require.NotNil(t, pair.Download)
		assert.Equal(t, "https://s3/get", pair.Download.URL)
		assert.Equal(t, pair.Upload.Filepath, pair.Download.Filepath)
	})

	t.Run("DownloadFailureIsTolerated", func(t *testing.T) {
		backend := newMockBackend(storage.KindS3)
		backend.On("Presign", mock.Anything, record.Filepath, storage.DirectionUpload, time.Hour).Return("https://s3/put", nil)
		backend.On("Presign", mock.Anything, record.Filepath, storage.DirectionDownload, time.Hour).Return("", errors.New("boom"))

		pair, err := issuer.IssuePair(ctx, backend, record, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "https://s3/put", pair.Upload.URL)
		assert.Nil(t, pair.Download)
	})

	t.Run("UploadFailureFailsThePair", func(t *testing.T) {
		backend := newMockBackend(storage.KindS3)
		backend.On("Presign", mock.Anything, record.Filepath, storage.DirectionUpload, time.Hour).Return("", errors.New("boom"))

		_, err := issuer.IssuePair(ctx, backend, record, time.Hour)
		assert.ErrorIs(t, err, storage.ErrPresignGenerationFailed)
		backend.AssertNumberOfCalls(t, "Presign", 1)
	})
}
