package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient is the subset of the MinIO client used by MinioBackend.
type MinioClient interface {
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// StatObject fetches object metadata.
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	// PresignedPutObject signs an upload URL.
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	// PresignedGetObject signs a download URL.
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// GetObject downloads an object.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// NewMinioClient creates a MinIO client with strict transport timeouts.
func NewMinioClient(cfg BackendConfig) (MinioClient, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	timeout := cfg.Timeout()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	lookup := minio.BucketLookupAuto
	if cfg.PathStyle {
		lookup = minio.BucketLookupPath
	}

	// Region is set explicitly so presigning never triggers a location lookup.
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       region,
		Transport:    transport,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &minioClientWrapper{Client: client}, nil
}

type minioClientWrapper struct {
	*minio.Client
}

func (c *minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}

// MinioBackend implements Backend for S3-compatible stores through minio-go.
type MinioBackend struct {
	name   string
	bucket string
	client MinioClient
}

// NewMinio wraps an existing client.
func NewMinio(name, bucket string, client MinioClient) *MinioBackend {
	return &MinioBackend{name: name, bucket: bucket, client: client}
}

func (m *MinioBackend) Kind() Kind   { return KindS3 }
func (m *MinioBackend) Name() string { return m.name }

// Exists stats the object; NoSuchKey means absent.
func (m *MinioBackend) Exists(ctx context.Context, path string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if isMinioNotFound(err) {
			return false, nil
		}
		return false, opError(ErrExistenceCheckFailed, "exists", KindS3, m.name, path, err)
	}
	return true, nil
}

// Presign signs PUT for uploads and GET for downloads.
func (m *MinioBackend) Presign(ctx context.Context, path string, direction Direction, expires time.Duration) (string, error) {
	var (
		u   *url.URL
		err error
	)
	if direction == DirectionUpload {
		u, err = m.client.PresignedPutObject(ctx, m.bucket, path, expires)
	} else {
		u, err = m.client.PresignedGetObject(ctx, m.bucket, path, expires, nil)
	}
	if err != nil {
		return "", opError(ErrPresignGenerationFailed, "presign "+string(direction), KindS3, m.name, path, err)
	}
	if u == nil {
		return "", opError(ErrPresignGenerationFailed, "presign "+string(direction), KindS3, m.name, path, errors.New("empty url"))
	}
	return u.String(), nil
}

func (m *MinioBackend) Put(ctx context.Context, path string, data io.Reader, size int64) error {
	if size <= 0 {
		size = -1
	}
	if _, err := m.client.PutObject(ctx, m.bucket, path, data, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	}); err != nil {
		return opError(ErrTransferFailed, "put", KindS3, m.name, path, err)
	}
	return nil
}

// Get stats first because minio reads lazily and would surface a missing key on Read.
func (m *MinioBackend) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if _, err := m.client.StatObject(ctx, m.bucket, path, minio.StatObjectOptions{}); err != nil {
		if isMinioNotFound(err) {
			return nil, opError(ErrObjectNotFound, "get", KindS3, m.name, path, err)
		}
		return nil, opError(ErrTransferFailed, "get", KindS3, m.name, path, err)
	}
	obj, err := m.client.GetObject(ctx, m.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, opError(ErrTransferFailed, "get", KindS3, m.name, path, err)
	}
	return obj, nil
}

func (m *MinioBackend) Probe(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return opError(ErrBackendUnavailable, "probe", KindS3, m.name, "", err)
	}
	if !exists {
		return opError(ErrBackendUnavailable, "probe", KindS3, m.name, "", fmt.Errorf("bucket %q does not exist", m.bucket))
	}
	return nil
}

func isMinioNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound" || resp.StatusCode == http.StatusNotFound
}
