package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSBucket is the subset of the Aliyun bucket handle used by OSSBackend.
type OSSBucket interface {
	SignURL(ctx context.Context, key string, method string, expiredInSec int64) (string, error)
	IsObjectExist(ctx context.Context, key string) (bool, error)
	PutObject(ctx context.Context, key string, reader io.Reader) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	BucketExists(ctx context.Context) (bool, error)
}

// NewOSSBucket opens a bucket handle. The SDK connects lazily.
func NewOSSBucket(cfg BackendConfig) (OSSBucket, error) {
	timeout := int64(cfg.Timeout() / time.Second)
	client, err := oss.New(withScheme(cfg.Endpoint, cfg.UseSSL), cfg.AccessKey, cfg.SecretKey,
		oss.Timeout(timeout, 120),
	)
	if err != nil {
		return nil, fmt.Errorf("create oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open oss bucket: %w", err)
	}
	return &ossBucketWrapper{client: client, bucket: bucket}, nil
}

type ossBucketWrapper struct {
	client *oss.Client
	bucket *oss.Bucket
}

func (w *ossBucketWrapper) SignURL(ctx context.Context, key string, method string, expiredInSec int64) (string, error) {
	httpMethod := oss.HTTPGet
	if method == http.MethodPut {
		httpMethod = oss.HTTPPut
	}
	return w.bucket.SignURL(key, httpMethod, expiredInSec)
}

func (w *ossBucketWrapper) IsObjectExist(ctx context.Context, key string) (bool, error) {
	return w.bucket.IsObjectExist(key, oss.WithContext(ctx))
}

func (w *ossBucketWrapper) PutObject(ctx context.Context, key string, reader io.Reader) error {
	return w.bucket.PutObject(key, reader, oss.WithContext(ctx))
}

func (w *ossBucketWrapper) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return w.bucket.GetObject(key, oss.WithContext(ctx))
}

// BucketExists reads the bucket's own info, which bucket-scoped credentials
// are allowed to do, unlike listing the account's buckets.
func (w *ossBucketWrapper) BucketExists(ctx context.Context) (bool, error) {
	_, err := w.client.GetBucketInfo(w.bucket.BucketName, oss.WithContext(ctx))
	if err == nil {
		return true, nil
	}
	var svcErr oss.ServiceError
	if errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

// OSSBackend implements Backend for Aliyun OSS.
type OSSBackend struct {
	name   string
	bucket OSSBucket
}

// NewOSS wraps a bucket handle.
func NewOSS(name string, bucket OSSBucket) *OSSBackend {
	return &OSSBackend{name: name, bucket: bucket}
}

func (o *OSSBackend) Kind() Kind   { return KindOSS }
func (o *OSSBackend) Name() string { return o.name }

func (o *OSSBackend) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := o.bucket.IsObjectExist(ctx, path)
	if err != nil {
		return false, opError(ErrExistenceCheckFailed, "exists", KindOSS, o.name, path, err)
	}
	return ok, nil
}

// Presign uses a single sign call parameterized by the HTTP method.
func (o *OSSBackend) Presign(ctx context.Context, path string, direction Direction, expires time.Duration) (string, error) {
	signed, err := o.bucket.SignURL(ctx, path, direction.Method(), int64(expires/time.Second))
	if err != nil {
		return "", opError(ErrPresignGenerationFailed, "presign "+string(direction), KindOSS, o.name, path, err)
	}
	if signed == "" {
		return "", opError(ErrPresignGenerationFailed, "presign "+string(direction), KindOSS, o.name, path, errors.New("empty url"))
	}
	return signed, nil
}

func (o *OSSBackend) Put(ctx context.Context, path string, data io.Reader, size int64) error {
	if err := o.bucket.PutObject(ctx, path, data); err != nil {
		return opError(ErrTransferFailed, "put", KindOSS, o.name, path, err)
	}
	return nil
}

func (o *OSSBackend) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	body, err := o.bucket.GetObject(ctx, path)
	if err != nil {
		var svcErr oss.ServiceError
		if errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound {
			return nil, opError(ErrObjectNotFound, "get", KindOSS, o.name, path, err)
		}
		return nil, opError(ErrTransferFailed, "get", KindOSS, o.name, path, err)
	}
	return body, nil
}

func (o *OSSBackend) Probe(ctx context.Context) error {
	var ok bool
	err := awaitCall(ctx, func() error {
		var err error
		ok, err = o.bucket.BucketExists(ctx)
		return err
	})
	if err != nil {
		return opError(ErrBackendUnavailable, "probe", KindOSS, o.name, "", err)
	}
	if !ok {
		return opError(ErrBackendUnavailable, "probe", KindOSS, o.name, "", errors.New("bucket does not exist"))
	}
	return nil
}
