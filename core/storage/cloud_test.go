package storage_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"transfer-relay/core/storage"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/huaweicloud/huaweicloud-sdk-go-obs/obs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOSSBucket struct {
	signedURL  string
	signErr    error
	lastMethod string
	lastExpiry int64
	exists     bool
	existsErr  error
	getErr     error
	hang       chan struct{}
	missing    bool
}

func (f *fakeOSSBucket) SignURL(ctx context.Context, key string, method string, expiredInSec int64) (string, error) {
	f.lastMethod = method
	f.lastExpiry = expiredInSec
	return f.signedURL, f.signErr
}

func (f *fakeOSSBucket) IsObjectExist(ctx context.Context, key string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeOSSBucket) PutObject(ctx context.Context, key string, reader io.Reader) error {
	return nil
}

func (f *fakeOSSBucket) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return io.NopCloser(strings.NewReader("oss")), nil
}

func (f *fakeOSSBucket) BucketExists(ctx context.Context) (bool, error) {
	if f.hang != nil {
		<-f.hang
	}
	return !f.missing, nil
}

func TestOSSBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("PresignPassesMethodAndSeconds", func(t *testing.T) {
		bucket := &fakeOSSBucket{signedURL: "https://b.oss-cn-hangzhou.aliyuncs.com/k?Signature=x"}
		url, err := storage.NewOSS("oss", bucket).Presign(ctx, "k", storage.DirectionUpload, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, bucket.signedURL, url)
		assert.Equal(t, http.MethodPut, bucket.lastMethod)
		assert.Equal(t, int64(3600), bucket.lastExpiry)
	})

	t.Run("PresignEmptyURL", func(t *testing.T) {
		_, err := storage.NewOSS("oss", &fakeOSSBucket{}).Presign(ctx, "k", storage.DirectionDownload, time.Hour)
		assert.ErrorIs(t, err, storage.ErrPresignGenerationFailed)
	})

	t.Run("ExistsFailure", func(t *testing.T) {
		_, err := storage.NewOSS("oss", &fakeOSSBucket{existsErr: errors.New("timeout")}).Exists(ctx, "k")
		assert.ErrorIs(t, err, storage.ErrExistenceCheckFailed)
	})

	t.Run("MissingBucketUnavailable", func(t *testing.T) {
		err := storage.NewOSS("oss", &fakeOSSBucket{missing: true}).Probe(ctx)
		assert.ErrorIs(t, err, storage.ErrBackendUnavailable)
	})

	t.Run("LivenessHonorsDeadline", func(t *testing.T) {
		bucket := &fakeOSSBucket{hang: make(chan struct{})}
		defer close(bucket.hang)
		probeCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := storage.NewOSS("oss", bucket).Probe(probeCtx)
		assert.ErrorIs(t, err, storage.ErrBackendUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		bucket := &fakeOSSBucket{getErr: oss.ServiceError{StatusCode: http.StatusNotFound, Code: "NoSuchKey"}}
		_, err := storage.NewOSS("oss", bucket).Get(ctx, "k")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}

func TestNewOSSBucketSignsOffline(t *testing.T) {
	bucket, err := storage.NewOSSBucket(storage.BackendConfig{
		Name:      "oss",
		Kind:      storage.KindOSS,
		Endpoint:  "oss-cn-hangzhou.aliyuncs.com",
		Bucket:    "transfers",
		AccessKey: "testkey",
		SecretKey: "testsecret",
		UseSSL:    true,
	})
	require.NoError(t, err)

	url, err := storage.NewOSS("oss", bucket).Presign(context.Background(), "FTP_FILES/a.txt", storage.DirectionDownload, time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "transfers")
	assert.Contains(t, url, "Signature=")
}

type fakeOBS struct {
	signed     *storage.OBSSignedURL
	signErr    error
	lastMethod string
	lastExpiry int
	headErr    error
	getErr     error
	hang       chan struct{}
}

func (f *fakeOBS) CreateSignedURL(method string, bucket, key string, expires int) (*storage.OBSSignedURL, error) {
	f.lastMethod = method
	f.lastExpiry = expires
	return f.signed, f.signErr
}

func (f *fakeOBS) ObjectExists(bucket, key string) (bool, error) {
	return key == "present", nil
}

func (f *fakeOBS) PutObject(bucket, key string, reader io.Reader, size int64) error {
	return nil
}

func (f *fakeOBS) GetObject(bucket, key string) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return io.NopCloser(strings.NewReader("obs")), nil
}

func (f *fakeOBS) HeadBucket(bucket string) error {
	if f.hang != nil {
		<-f.hang
	}
	return f.headErr
}

func TestOBSBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("PresignDownload", func(t *testing.T) {
		api := &fakeOBS{signed: &storage.OBSSignedURL{SignedURL: "https://obs/k?Signature=x"}}
		url, err := storage.NewOBS("obs", "transfers", api).Presign(ctx, "k", storage.DirectionDownload, 90*time.Second)
		require.NoError(t, err)
		assert.Equal(t, "https://obs/k?Signature=x", url)
		assert.Equal(t, http.MethodGet, api.lastMethod)
		assert.Equal(t, 90, api.lastExpiry)
	})

	t.Run("ResponseWithoutURLIsFailure", func(t *testing.T) {
		api := &fakeOBS{signed: &storage.OBSSignedURL{}}
		_, err := storage.NewOBS("obs", "transfers", api).Presign(ctx, "k", storage.DirectionUpload, time.Hour)
		assert.ErrorIs(t, err, storage.ErrPresignGenerationFailed)
	})

	t.Run("NilResponseIsFailure", func(t *testing.T) {
		_, err := storage.NewOBS("obs", "transfers", &fakeOBS{}).Presign(ctx, "k", storage.DirectionUpload, time.Hour)
		assert.ErrorIs(t, err, storage.ErrPresignGenerationFailed)
	})

	t.Run("Exists", func(t *testing.T) {
		backend := storage.NewOBS("obs", "transfers", &fakeOBS{})
		ok, err := backend.Exists(ctx, "present")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = backend.Exists(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		obsErr := obs.ObsError{}
		obsErr.StatusCode = http.StatusNotFound
		_, err := storage.NewOBS("obs", "transfers", &fakeOBS{getErr: obsErr}).Get(ctx, "k")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})

	t.Run("ProbeFailure", func(t *testing.T) {
		err := storage.NewOBS("obs", "transfers", &fakeOBS{headErr: errors.New("403")}).Probe(ctx)
		assert.ErrorIs(t, err, storage.ErrBackendUnavailable)
	})

	t.Run("LivenessHonorsDeadline", func(t *testing.T) {
		api := &fakeOBS{hang: make(chan struct{})}
		defer close(api.hang)
		probeCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := storage.NewOBS("obs", "transfers", api).Probe(probeCtx)
		assert.ErrorIs(t, err, storage.ErrBackendUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})
}
